// internal/model/partner.go
package model

import "time"

type Partner struct {
	ID            int64      `db:"id" json:"id"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name,omitempty"`
	Company       string     `db:"company" json:"company,omitempty"`
	Phone         string     `db:"phone" json:"phone"`
	RegionID      *int64     `db:"region_id" json:"region_id,omitempty"`
	TSDID         *int64     `db:"tsd_id" json:"tsd_id,omitempty"`
	Notes         string     `db:"notes" json:"notes,omitempty"`
	OptedOut      bool       `db:"opted_out" json:"opted_out"`
	Pinned        bool       `db:"pinned" json:"pinned"`
	Archived      bool       `db:"archived" json:"archived"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	LastContacted *time.Time `db:"last_contacted" json:"last_contacted,omitempty"`

	// Denormalized lookups, populated by the repository on read.
	Region   string     `json:"region,omitempty"`
	TSD      string     `json:"tsd,omitempty"`
	Products []Category `json:"products"`
	Tags     []Tag      `json:"tags"`
}

// FullName joins first and last name, skipping a missing last name.
func (p *Partner) FullName() string {
	if p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	return p.FirstName
}

// IsNew reports whether the partner has never been contacted. Derived at
// read time from last_contacted so it can never go stale.
func (p *Partner) IsNew() bool {
	return p.LastContacted == nil
}

// HasProduct reports whether a product id is in the partner's assignment set.
func (p *Partner) HasProduct(productID int64) bool {
	for _, prod := range p.Products {
		if prod.ID == productID {
			return true
		}
	}
	return false
}
