package repository

import (
	"database/sql"
	"time"

	"github.com/silversky/partnersms-backend/internal/model"
)

type MessageRepositoryInterface interface {
	Append(msg *model.Message) error
	ListByPartner(partnerID int64) ([]model.Message, error)
	MarkThreadRead(partnerID int64) error
	UpdateStatusBySID(sid string, status model.MessageStatus) error
	Conversations() ([]model.ConversationSummary, error)
}

type MessageRepository struct {
	DB *sql.DB
}

// Append writes one thread entry. Each record is independent; no
// cross-record transaction is needed.
func (r *MessageRepository) Append(msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	query := `
        INSERT INTO messages (partner_id, direction, body, media_url, media_type, status, transport_sid, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		msg.PartnerID, msg.Direction, msg.Body,
		nullIfEmpty(msg.MediaURL), nullIfEmpty(msg.MediaType),
		msg.Status, nullIfEmpty(msg.TransportSID), msg.CreatedAt,
	).Scan(&msg.ID)
}

// ListByPartner returns the full thread, oldest first. Stable order:
// created_at, then id for entries sharing a timestamp.
func (r *MessageRepository) ListByPartner(partnerID int64) ([]model.Message, error) {
	query := `
        SELECT id, partner_id, direction, body,
               COALESCE(media_url, ''), COALESCE(media_type, ''),
               status, COALESCE(transport_sid, ''), created_at
        FROM messages
        WHERE partner_id=$1
        ORDER BY created_at, id
    `
	rows, err := r.DB.Query(query, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(
			&m.ID, &m.PartnerID, &m.Direction, &m.Body,
			&m.MediaURL, &m.MediaType, &m.Status, &m.TransportSID, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) MarkThreadRead(partnerID int64) error {
	_, err := r.DB.Exec(
		`UPDATE messages SET status=$1 WHERE partner_id=$2 AND direction=$3 AND status=$4`,
		model.MessageStatusRead, partnerID, model.DirectionInbound, model.MessageStatusReceived,
	)
	return err
}

func (r *MessageRepository) UpdateStatusBySID(sid string, status model.MessageStatus) error {
	_, err := r.DB.Exec(`UPDATE messages SET status=$1 WHERE transport_sid=$2`, status, sid)
	return err
}

// Conversations lists one row per partner with message history, pinned
// threads first, then most recent activity.
func (r *MessageRepository) Conversations() ([]model.ConversationSummary, error) {
	query := `
        SELECT p.id, p.first_name, COALESCE(p.last_name, ''), COALESCE(p.company, ''), p.phone, p.pinned,
               last.body, last.created_at,
               (SELECT COUNT(*) FROM messages u
                WHERE u.partner_id = p.id AND u.direction = 'inbound' AND u.status = 'received')
        FROM partners p
        JOIN LATERAL (
            SELECT body, created_at FROM messages m
            WHERE m.partner_id = p.id
            ORDER BY m.created_at DESC, m.id DESC
            LIMIT 1
        ) last ON TRUE
        WHERE p.archived = FALSE
        ORDER BY p.pinned DESC, last.created_at DESC
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.ConversationSummary{}
	for rows.Next() {
		var s model.ConversationSummary
		var firstName, lastName string
		if err := rows.Scan(
			&s.PartnerID, &firstName, &lastName, &s.Company, &s.Phone, &s.Pinned,
			&s.LastBody, &s.LastAt, &s.UnreadCount,
		); err != nil {
			return nil, err
		}
		s.PartnerName = firstName
		if lastName != "" {
			s.PartnerName = firstName + " " + lastName
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
