package repository

import (
	"database/sql"
	"time"
)

// StatsSnapshot is the dashboard rollup.
type StatsSnapshot struct {
	TotalPartners  int           `json:"total_partners"`
	NeverContacted int           `json:"never_contacted"`
	MessagesToday  int           `json:"messages_today"`
	MessagesWeek   int           `json:"messages_week"`
	SentWeek       int           `json:"sent_week"`
	RepliesWeek    int           `json:"replies_week"`
	Unread         int           `json:"unread"`
	ResponseRate   float64       `json:"response_rate"`
	ByRegion       []RegionCount `json:"partners_by_region"`
}

type RegionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type StatsRepositoryInterface interface {
	Snapshot(now time.Time) (*StatsSnapshot, error)
}

type StatsRepository struct {
	DB *sql.DB
}

func (r *StatsRepository) Snapshot(now time.Time) (*StatsSnapshot, error) {
	now = now.UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(now.Weekday()+6) % 7 // Monday = 0
	weekStart := todayStart.AddDate(0, 0, -weekday)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	s := &StatsSnapshot{}

	counts := []struct {
		dest  *int
		query string
		args  []interface{}
	}{
		{&s.TotalPartners, `SELECT COUNT(*) FROM partners WHERE archived=FALSE`, nil},
		{&s.NeverContacted, `SELECT COUNT(*) FROM partners WHERE archived=FALSE AND last_contacted IS NULL`, nil},
		{&s.MessagesToday, `SELECT COUNT(*) FROM messages WHERE created_at >= $1`, []interface{}{todayStart}},
		{&s.MessagesWeek, `SELECT COUNT(*) FROM messages WHERE created_at >= $1`, []interface{}{weekStart}},
		{&s.SentWeek, `SELECT COUNT(*) FROM messages WHERE created_at >= $1 AND direction='outbound'`, []interface{}{weekStart}},
		{&s.RepliesWeek, `SELECT COUNT(*) FROM messages WHERE created_at >= $1 AND direction='inbound'`, []interface{}{weekStart}},
		{&s.Unread, `SELECT COUNT(*) FROM messages WHERE direction='inbound' AND status='received'`, nil},
	}
	for _, c := range counts {
		if err := r.DB.QueryRow(c.query, c.args...).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	// Response rate: partners who replied this month over partners messaged
	// this month.
	var messaged, replied int
	if err := r.DB.QueryRow(
		`SELECT COUNT(DISTINCT partner_id) FROM messages WHERE created_at >= $1 AND direction='outbound'`,
		monthStart,
	).Scan(&messaged); err != nil {
		return nil, err
	}
	if err := r.DB.QueryRow(
		`SELECT COUNT(DISTINCT partner_id) FROM messages WHERE created_at >= $1 AND direction='inbound'`,
		monthStart,
	).Scan(&replied); err != nil {
		return nil, err
	}
	if messaged > 0 {
		s.ResponseRate = float64(int(float64(replied)/float64(messaged)*1000)) / 10
	}

	rows, err := r.DB.Query(`
        SELECT COALESCE(r.name, 'No Region'), COUNT(p.id)
        FROM partners p
        LEFT JOIN regions r ON r.id = p.region_id
        WHERE p.archived = FALSE
        GROUP BY r.name
        ORDER BY COUNT(p.id) DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rc RegionCount
		if err := rows.Scan(&rc.Name, &rc.Count); err != nil {
			return nil, err
		}
		s.ByRegion = append(s.ByRegion, rc)
	}
	return s, rows.Err()
}

var _ StatsRepositoryInterface = (*StatsRepository)(nil)
