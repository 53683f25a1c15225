// internal/service/csv.go
package service

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/repository"
	"github.com/silversky/partnersms-backend/internal/sms"
)

// ImportResult reports the outcome of a CSV import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// csvField pulls a value out of a row by any of several header spellings.
func csvField(row map[string]string, names ...string) string {
	for _, n := range names {
		if v, ok := row[n]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ImportPartners reads a partner CSV (flexible header names), skipping
// rows with missing required fields or already-known phone numbers.
func (s *PartnerService) ImportPartners(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []string{}}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			result.Skipped++
			continue
		}

		row := map[string]string{}
		for i, h := range header {
			if i < len(rec) {
				row[strings.TrimSpace(h)] = rec[i]
			}
		}

		phone := csvField(row, "phone", "Phone")
		firstName := csvField(row, "first_name", "First Name", "FirstName")
		if phone == "" || firstName == "" {
			result.Skipped++
			continue
		}

		normalized, err := sms.Normalize(phone, s.DefaultPhoneRegion)
		if err != nil {
			result.Errors = append(result.Errors, "invalid phone "+phone)
			result.Skipped++
			continue
		}
		existing, err := s.PartnerRepo.GetByPhone(normalized)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		partner := &model.Partner{
			FirstName: firstName,
			LastName:  csvField(row, "last_name", "Last Name", "LastName"),
			Company:   csvField(row, "company", "Company"),
			Phone:     normalized,
		}
		if err := s.PartnerRepo.Create(partner, nil, nil); err != nil {
			result.Errors = append(result.Errors, err.Error())
			result.Skipped++
			continue
		}
		result.Imported++
	}

	// Keep the error list short for the response.
	if len(result.Errors) > 5 {
		result.Errors = result.Errors[:5]
	}
	return result, nil
}

// ExportPartners writes the full partner list as CSV.
func (s *PartnerService) ExportPartners(w io.Writer) error {
	partners, err := s.PartnerRepo.List(repository.PartnerFilter{IncludeArchived: true})
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{
		"first_name", "last_name", "company", "phone", "region", "tsd", "products", "notes", "last_contacted",
	}); err != nil {
		return err
	}

	for _, p := range partners {
		products := make([]string, len(p.Products))
		for i, prod := range p.Products {
			products[i] = prod.Name
		}
		lastContacted := ""
		if p.LastContacted != nil {
			lastContacted = p.LastContacted.Format("2006-01-02T15:04:05Z07:00")
		}
		if err := writer.Write([]string{
			p.FirstName, p.LastName, p.Company, p.Phone,
			p.Region, p.TSD, strings.Join(products, ", "), p.Notes, lastContacted,
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
