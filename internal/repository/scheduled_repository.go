package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	appErrors "github.com/silversky/partnersms-backend/internal/errors"
	"github.com/silversky/partnersms-backend/internal/model"
)

type ScheduledRepositoryInterface interface {
	Create(s *model.ScheduledBroadcast) error
	ListPending() ([]model.ScheduledBroadcast, error)
	Due(now time.Time) ([]model.ScheduledBroadcast, error)
	MarkSent(id int64) error
	Cancel(id int64) error
}

type ScheduledRepository struct {
	DB *sql.DB
}

func (r *ScheduledRepository) Create(s *model.ScheduledBroadcast) error {
	s.CreatedAt = time.Now().UTC()
	if s.Status == "" {
		s.Status = model.ScheduleStatusPending
	}
	ids, err := json.Marshal(s.PartnerIDs)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO scheduled_broadcasts (template, partner_ids, media_url, media_type, scheduled_time, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		s.Template, ids, nullIfEmpty(s.MediaURL), nullIfEmpty(s.MediaType),
		s.ScheduledTime, s.Status, s.CreatedAt,
	).Scan(&s.ID)
}

func (r *ScheduledRepository) list(where string, args ...interface{}) ([]model.ScheduledBroadcast, error) {
	query := `
        SELECT id, template, partner_ids, COALESCE(media_url, ''), COALESCE(media_type, ''),
               scheduled_time, status, created_at
        FROM scheduled_broadcasts ` + where + ` ORDER BY scheduled_time`
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scheduled := []model.ScheduledBroadcast{}
	for rows.Next() {
		var s model.ScheduledBroadcast
		var ids []byte
		if err := rows.Scan(
			&s.ID, &s.Template, &ids, &s.MediaURL, &s.MediaType,
			&s.ScheduledTime, &s.Status, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(ids, &s.PartnerIDs); err != nil {
			return nil, err
		}
		scheduled = append(scheduled, s)
	}
	return scheduled, rows.Err()
}

func (r *ScheduledRepository) ListPending() ([]model.ScheduledBroadcast, error) {
	return r.list(`WHERE status='pending'`)
}

func (r *ScheduledRepository) Due(now time.Time) ([]model.ScheduledBroadcast, error) {
	return r.list(`WHERE status='pending' AND scheduled_time <= $1`, now)
}

func (r *ScheduledRepository) MarkSent(id int64) error {
	_, err := r.DB.Exec(`UPDATE scheduled_broadcasts SET status='sent' WHERE id=$1`, id)
	return err
}

func (r *ScheduledRepository) Cancel(id int64) error {
	res, err := r.DB.Exec(`UPDATE scheduled_broadcasts SET status='cancelled' WHERE id=$1 AND status='pending'`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("scheduled broadcast", id)
	}
	return nil
}

var _ ScheduledRepositoryInterface = (*ScheduledRepository)(nil)
