package repository

import (
	"database/sql"
	"time"

	"github.com/silversky/partnersms-backend/internal/model"
)

type SendRecordRepositoryInterface interface {
	Create(rec *model.SendRecord) error
	ListByBroadcast(broadcastID string) ([]model.SendRecord, error)
	UpdateStatusBySID(sid string, status model.SendStatus) error
}

type SendRecordRepository struct {
	DB *sql.DB
}

func (r *SendRecordRepository) Create(rec *model.SendRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	query := `
        INSERT INTO send_records (broadcast_id, partner_id, body, status, transport_sid, last_error, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		rec.BroadcastID, rec.PartnerID, rec.Body, rec.Status,
		nullIfEmpty(rec.TransportSID), nullIfEmpty(rec.LastError), rec.CreatedAt,
	).Scan(&rec.ID)
}

func (r *SendRecordRepository) ListByBroadcast(broadcastID string) ([]model.SendRecord, error) {
	query := `
        SELECT id, broadcast_id, partner_id, body, status,
               COALESCE(transport_sid, ''), COALESCE(last_error, ''), created_at
        FROM send_records
        WHERE broadcast_id=$1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, broadcastID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.SendRecord{}
	for rows.Next() {
		var rec model.SendRecord
		if err := rows.Scan(
			&rec.ID, &rec.BroadcastID, &rec.PartnerID, &rec.Body, &rec.Status,
			&rec.TransportSID, &rec.LastError, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SendRecordRepository) UpdateStatusBySID(sid string, status model.SendStatus) error {
	_, err := r.DB.Exec(`UPDATE send_records SET status=$1 WHERE transport_sid=$2`, status, sid)
	return err
}

var _ SendRecordRepositoryInterface = (*SendRecordRepository)(nil)
