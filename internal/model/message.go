// internal/model/message.go
package model

import "time"

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// MessageStatus represents valid message statuses
type MessageStatus string

const (
	MessageStatusQueued    MessageStatus = "queued"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusFailed    MessageStatus = "failed"
	MessageStatusReceived  MessageStatus = "received"
	MessageStatusRead      MessageStatus = "read"
)

// Message is one entry in a partner's conversation thread. Append-only;
// ordering key is created_at with id breaking ties.
type Message struct {
	ID           int64         `db:"id" json:"id"`
	PartnerID    int64         `db:"partner_id" json:"partner_id"`
	Direction    Direction     `db:"direction" json:"direction"`
	Body         string        `db:"body" json:"body"`
	MediaURL     string        `db:"media_url" json:"media_url,omitempty"`
	MediaType    string        `db:"media_type" json:"media_type,omitempty"`
	Status       MessageStatus `db:"status" json:"status"`
	TransportSID string        `db:"transport_sid" json:"transport_sid,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

// ConversationSummary is the inbox row for one partner thread.
type ConversationSummary struct {
	PartnerID   int64     `json:"partner_id"`
	PartnerName string    `json:"partner_name"`
	Company     string    `json:"company,omitempty"`
	Phone       string    `json:"phone"`
	Pinned      bool      `json:"pinned"`
	LastBody    string    `json:"last_body"`
	LastAt      time.Time `json:"last_at"`
	UnreadCount int       `json:"unread_count"`
}
