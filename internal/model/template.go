// internal/model/template.go
package model

import "time"

// MessageTemplate is an operator-saved reusable broadcast text.
type MessageTemplate struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
