// internal/model/send_record.go
package model

import "time"

// SendStatus enumerates outcomes of one broadcast send attempt
type SendStatus string

const (
	SendStatusSent    SendStatus = "sent"
	SendStatusFailed  SendStatus = "failed"
	SendStatusSkipped SendStatus = "skipped" // opted-out recipient, no send attempted
)

// SendRecord is one (broadcast, partner) delivery attempt.
type SendRecord struct {
	ID           int64      `db:"id" json:"id"`
	BroadcastID  string     `db:"broadcast_id" json:"broadcast_id"`
	PartnerID    int64      `db:"partner_id" json:"partner_id"`
	Body         string     `db:"body" json:"body"`
	Status       SendStatus `db:"status" json:"status"`
	TransportSID string     `db:"transport_sid" json:"transport_sid,omitempty"`
	LastError    string     `db:"last_error" json:"last_error,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
