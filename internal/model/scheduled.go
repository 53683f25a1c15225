// internal/model/scheduled.go
package model

import "time"

type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	ScheduleStatusSent      ScheduleStatus = "sent"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// ScheduledBroadcast is a broadcast parked until its scheduled time.
// PartnerIDs is stored as a JSON array column.
type ScheduledBroadcast struct {
	ID            int64          `db:"id" json:"id"`
	Template      string         `db:"template" json:"template"`
	PartnerIDs    []int64        `db:"partner_ids" json:"partner_ids"`
	MediaURL      string         `db:"media_url" json:"media_url,omitempty"`
	MediaType     string         `db:"media_type" json:"media_type,omitempty"`
	ScheduledTime time.Time      `db:"scheduled_time" json:"scheduled_time"`
	Status        ScheduleStatus `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
