package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/silversky/partnersms-backend/internal/model"
)

// PartnerFilter narrows the partner list. Empty slices and false flags
// are wildcards.
type PartnerFilter struct {
	Search          string
	RegionIDs       []int64
	TSDIDs          []int64
	ProductIDs      []int64
	TagIDs          []int64
	NewOnly         bool
	IncludeArchived bool
}

// PartnerRepositoryInterface defines methods used by services
type PartnerRepositoryInterface interface {
	Create(p *model.Partner, productIDs, tagIDs []int64) error
	GetByID(id int64) (*model.Partner, error)
	GetByPhone(phone string) (*model.Partner, error)
	List(f PartnerFilter) ([]model.Partner, error)
	Update(p *model.Partner) error
	ReplaceProducts(partnerID int64, productIDs []int64) error
	ReplaceTags(partnerID int64, tagIDs []int64) error
	SetArchived(id int64, archived bool) error
	SetPinned(id int64, pinned bool) error
	SetOptedOut(id int64, optedOut bool) error
	UpdateNotes(id int64, notes string) error
	TouchLastContacted(id int64, at time.Time) error
}

// PartnerRepository is the concrete Postgres implementation
type PartnerRepository struct {
	DB *sql.DB
}

const partnerColumns = `p.id, p.first_name, p.last_name, p.company, p.phone,
       p.region_id, p.tsd_id, p.notes, p.opted_out, p.pinned, p.archived,
       p.created_at, p.last_contacted, COALESCE(r.name, ''), COALESCE(t.name, '')`

const partnerJoins = `FROM partners p
       LEFT JOIN regions r ON r.id = p.region_id
       LEFT JOIN tsds t ON t.id = p.tsd_id`

func scanPartner(row interface{ Scan(...any) error }) (*model.Partner, error) {
	var p model.Partner
	var lastName, company, notes sql.NullString
	err := row.Scan(
		&p.ID, &p.FirstName, &lastName, &company, &p.Phone,
		&p.RegionID, &p.TSDID, &notes, &p.OptedOut, &p.Pinned, &p.Archived,
		&p.CreatedAt, &p.LastContacted, &p.Region, &p.TSD,
	)
	if err != nil {
		return nil, err
	}
	p.LastName = lastName.String
	p.Company = company.String
	p.Notes = notes.String
	return &p, nil
}

func (r *PartnerRepository) Create(p *model.Partner, productIDs, tagIDs []int64) error {
	p.CreatedAt = time.Now().UTC()
	query := `
        INSERT INTO partners (first_name, last_name, company, phone, region_id, tsd_id, notes, opted_out, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	err := r.DB.QueryRow(query,
		p.FirstName, nullIfEmpty(p.LastName), nullIfEmpty(p.Company), p.Phone,
		p.RegionID, p.TSDID, nullIfEmpty(p.Notes), p.OptedOut, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return err
	}

	if err := r.ReplaceProducts(p.ID, productIDs); err != nil {
		return err
	}
	return r.ReplaceTags(p.ID, tagIDs)
}

func (r *PartnerRepository) GetByID(id int64) (*model.Partner, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE p.id = $1`, partnerColumns, partnerJoins)
	p, err := scanPartner(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	if err := r.loadAssignments([]*model.Partner{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PartnerRepository) GetByPhone(phone string) (*model.Partner, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE p.phone = $1`, partnerColumns, partnerJoins)
	p, err := scanPartner(r.DB.QueryRow(query, phone))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadAssignments([]*model.Partner{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PartnerRepository) List(f PartnerFilter) ([]model.Partner, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE 1=1`, partnerColumns, partnerJoins)
	args := []interface{}{}
	argPos := 1

	if !f.IncludeArchived {
		query += " AND p.archived = FALSE"
	}
	if f.Search != "" {
		query += fmt.Sprintf(` AND (p.first_name ILIKE $%d OR p.last_name ILIKE $%d OR p.company ILIKE $%d OR p.phone ILIKE $%d)`,
			argPos, argPos, argPos, argPos)
		args = append(args, "%"+f.Search+"%")
		argPos++
	}
	if len(f.RegionIDs) > 0 {
		query += fmt.Sprintf(" AND p.region_id = ANY($%d)", argPos)
		args = append(args, pq.Array(f.RegionIDs))
		argPos++
	}
	if len(f.TSDIDs) > 0 {
		query += fmt.Sprintf(" AND p.tsd_id = ANY($%d)", argPos)
		args = append(args, pq.Array(f.TSDIDs))
		argPos++
	}
	if len(f.ProductIDs) > 0 {
		query += fmt.Sprintf(` AND EXISTS (
            SELECT 1 FROM partner_products pp
            WHERE pp.partner_id = p.id AND pp.product_id = ANY($%d))`, argPos)
		args = append(args, pq.Array(f.ProductIDs))
		argPos++
	}
	if len(f.TagIDs) > 0 {
		query += fmt.Sprintf(` AND EXISTS (
            SELECT 1 FROM partner_tags pt
            WHERE pt.partner_id = p.id AND pt.tag_id = ANY($%d))`, argPos)
		args = append(args, pq.Array(f.TagIDs))
		argPos++
	}
	if f.NewOnly {
		query += " AND p.last_contacted IS NULL"
	}

	query += " ORDER BY p.company NULLS LAST, p.id"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ptrs := []*model.Partner{}
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadAssignments(ptrs); err != nil {
		return nil, err
	}

	partners := make([]model.Partner, len(ptrs))
	for i, p := range ptrs {
		partners[i] = *p
	}
	return partners, nil
}

// loadAssignments fills Products and Tags for the given partners in two
// batched queries.
func (r *PartnerRepository) loadAssignments(partners []*model.Partner) error {
	if len(partners) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Partner, len(partners))
	ids := make([]int64, 0, len(partners))
	for _, p := range partners {
		p.Products = []model.Category{}
		p.Tags = []model.Tag{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.DB.Query(`
        SELECT pp.partner_id, pr.id, pr.name, pr.created_at
        FROM partner_products pp
        JOIN products pr ON pr.id = pp.product_id
        WHERE pp.partner_id = ANY($1)
        ORDER BY pr.name`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var pid int64
		var c model.Category
		if err := rows.Scan(&pid, &c.ID, &c.Name, &c.CreatedAt); err != nil {
			return err
		}
		byID[pid].Products = append(byID[pid].Products, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := r.DB.Query(`
        SELECT pt.partner_id, tg.id, tg.name, tg.color, tg.created_at
        FROM partner_tags pt
        JOIN tags tg ON tg.id = pt.tag_id
        WHERE pt.partner_id = ANY($1)
        ORDER BY tg.name`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var pid int64
		var t model.Tag
		if err := tagRows.Scan(&pid, &t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return err
		}
		byID[pid].Tags = append(byID[pid].Tags, t)
	}
	return tagRows.Err()
}

func (r *PartnerRepository) Update(p *model.Partner) error {
	query := `
        UPDATE partners
        SET first_name=$1, last_name=$2, company=$3, phone=$4, region_id=$5, tsd_id=$6, notes=$7
        WHERE id=$8
    `
	_, err := r.DB.Exec(query,
		p.FirstName, nullIfEmpty(p.LastName), nullIfEmpty(p.Company), p.Phone,
		p.RegionID, p.TSDID, nullIfEmpty(p.Notes), p.ID,
	)
	return err
}

func (r *PartnerRepository) ReplaceProducts(partnerID int64, productIDs []int64) error {
	if productIDs == nil {
		return nil
	}
	if _, err := r.DB.Exec(`DELETE FROM partner_products WHERE partner_id=$1`, partnerID); err != nil {
		return err
	}
	for _, pid := range productIDs {
		if _, err := r.DB.Exec(
			`INSERT INTO partner_products (partner_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			partnerID, pid); err != nil {
			return err
		}
	}
	return nil
}

func (r *PartnerRepository) ReplaceTags(partnerID int64, tagIDs []int64) error {
	if tagIDs == nil {
		return nil
	}
	if _, err := r.DB.Exec(`DELETE FROM partner_tags WHERE partner_id=$1`, partnerID); err != nil {
		return err
	}
	for _, tid := range tagIDs {
		if _, err := r.DB.Exec(
			`INSERT INTO partner_tags (partner_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			partnerID, tid); err != nil {
			return err
		}
	}
	return nil
}

func (r *PartnerRepository) SetArchived(id int64, archived bool) error {
	_, err := r.DB.Exec(`UPDATE partners SET archived=$1 WHERE id=$2`, archived, id)
	return err
}

func (r *PartnerRepository) SetPinned(id int64, pinned bool) error {
	_, err := r.DB.Exec(`UPDATE partners SET pinned=$1 WHERE id=$2`, pinned, id)
	return err
}

func (r *PartnerRepository) SetOptedOut(id int64, optedOut bool) error {
	_, err := r.DB.Exec(`UPDATE partners SET opted_out=$1 WHERE id=$2`, optedOut, id)
	return err
}

func (r *PartnerRepository) UpdateNotes(id int64, notes string) error {
	_, err := r.DB.Exec(`UPDATE partners SET notes=$1 WHERE id=$2`, nullIfEmpty(notes), id)
	return err
}

func (r *PartnerRepository) TouchLastContacted(id int64, at time.Time) error {
	_, err := r.DB.Exec(`UPDATE partners SET last_contacted=$1 WHERE id=$2`, at, id)
	return err
}

// IsUniqueViolation reports whether err is a Postgres duplicate-key error,
// used to surface "phone number already exists" cleanly.
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ PartnerRepositoryInterface = (*PartnerRepository)(nil)
