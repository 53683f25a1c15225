// internal/service/partner.go
package service

import (
	"go.uber.org/zap"

	appErrors "github.com/silversky/partnersms-backend/internal/errors"
	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/repository"
	"github.com/silversky/partnersms-backend/internal/sms"
)

// PartnerInput is the operator-supplied shape for create/update.
type PartnerInput struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Company    string  `json:"company"`
	Phone      string  `json:"phone"`
	RegionID   *int64  `json:"region_id"`
	TSDID      *int64  `json:"tsd_id"`
	Notes      string  `json:"notes"`
	ProductIDs []int64 `json:"product_ids"`
	TagIDs     []int64 `json:"tag_ids"`
}

// PartnerService owns partner lifecycle rules: phone normalization,
// duplicate detection, archive-instead-of-delete.
type PartnerService struct {
	PartnerRepo        repository.PartnerRepositoryInterface
	DefaultPhoneRegion string
	Log                *zap.Logger
}

func (s *PartnerService) Create(in PartnerInput) (*model.Partner, error) {
	if in.FirstName == "" {
		return nil, appErrors.NewValidation("first_name is required")
	}
	phone, err := sms.Normalize(in.Phone, s.DefaultPhoneRegion)
	if err != nil {
		return nil, appErrors.NewValidation("invalid phone number: %v", err)
	}

	existing, err := s.PartnerRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.NewValidation("phone number already exists")
	}

	partner := &model.Partner{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Company:   in.Company,
		Phone:     phone,
		RegionID:  in.RegionID,
		TSDID:     in.TSDID,
		Notes:     in.Notes,
	}
	if err := s.PartnerRepo.Create(partner, in.ProductIDs, in.TagIDs); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.NewValidation("phone number already exists")
		}
		return nil, err
	}
	return partner, nil
}

func (s *PartnerService) Get(id int64) (*model.Partner, error) {
	partner, err := s.PartnerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, appErrors.NewNotFound("partner", id)
	}
	return partner, nil
}

func (s *PartnerService) List(f repository.PartnerFilter) ([]model.Partner, error) {
	return s.PartnerRepo.List(f)
}

func (s *PartnerService) Update(id int64, in PartnerInput) (*model.Partner, error) {
	partner, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != "" {
		partner.FirstName = in.FirstName
	}
	partner.LastName = in.LastName
	partner.Company = in.Company
	partner.Notes = in.Notes
	partner.RegionID = in.RegionID
	partner.TSDID = in.TSDID
	if in.Phone != "" {
		phone, err := sms.Normalize(in.Phone, s.DefaultPhoneRegion)
		if err != nil {
			return nil, appErrors.NewValidation("invalid phone number: %v", err)
		}
		partner.Phone = phone
	}

	if err := s.PartnerRepo.Update(partner); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.NewValidation("phone number already exists")
		}
		return nil, err
	}
	if err := s.PartnerRepo.ReplaceProducts(id, in.ProductIDs); err != nil {
		return nil, err
	}
	if err := s.PartnerRepo.ReplaceTags(id, in.TagIDs); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// ToggleArchive flips the archived flag. Partners are never deleted.
func (s *PartnerService) ToggleArchive(id int64) (bool, error) {
	partner, err := s.Get(id)
	if err != nil {
		return false, err
	}
	archived := !partner.Archived
	return archived, s.PartnerRepo.SetArchived(id, archived)
}

func (s *PartnerService) TogglePin(id int64) (bool, error) {
	partner, err := s.Get(id)
	if err != nil {
		return false, err
	}
	pinned := !partner.Pinned
	return pinned, s.PartnerRepo.SetPinned(id, pinned)
}

func (s *PartnerService) UpdateNotes(id int64, notes string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.PartnerRepo.UpdateNotes(id, notes)
}
