// internal/service/segment.go
package service

import "github.com/silversky/partnersms-backend/internal/model"

// Criteria narrows a partner list for a broadcast. Nil fields are
// wildcards; set fields combine with logical AND.
type Criteria struct {
	RegionID  *int64 `json:"region_id,omitempty"`
	TSDID     *int64 `json:"tsd_id,omitempty"`
	ProductID *int64 `json:"product_id,omitempty"`
	NewOnly   bool   `json:"new_only,omitempty"`
}

// IsEmpty reports whether every axis is a wildcard.
func (c Criteria) IsEmpty() bool {
	return c.RegionID == nil && c.TSDID == nil && c.ProductID == nil && !c.NewOnly
}

// Matches applies the criteria to one partner.
func (c Criteria) Matches(p model.Partner) bool {
	if c.RegionID != nil && (p.RegionID == nil || *p.RegionID != *c.RegionID) {
		return false
	}
	if c.TSDID != nil && (p.TSDID == nil || *p.TSDID != *c.TSDID) {
		return false
	}
	if c.ProductID != nil && !p.HasProduct(*c.ProductID) {
		return false
	}
	if c.NewOnly && !p.IsNew() {
		return false
	}
	return true
}

// Select returns the order-preserving subsequence of partners matching
// the criteria. Empty criteria is the identity.
func Select(partners []model.Partner, c Criteria) []model.Partner {
	if c.IsEmpty() {
		return partners
	}
	segment := make([]model.Partner, 0, len(partners))
	for _, p := range partners {
		if c.Matches(p) {
			segment = append(segment, p)
		}
	}
	return segment
}
