package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/silversky/partnersms-backend/internal/errors"
	"github.com/silversky/partnersms-backend/internal/model"
)

type TemplateRepositoryInterface interface {
	List() ([]model.MessageTemplate, error)
	Create(name, body string) (*model.MessageTemplate, error)
	Update(id int64, name, body string) error
	Delete(id int64) error
}

type TemplateRepository struct {
	DB *sql.DB
}

func (r *TemplateRepository) List() ([]model.MessageTemplate, error) {
	rows, err := r.DB.Query(`SELECT id, name, body, created_at FROM message_templates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []model.MessageTemplate{}
	for rows.Next() {
		var t model.MessageTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Body, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Create(name, body string) (*model.MessageTemplate, error) {
	t := model.MessageTemplate{Name: name, Body: body, CreatedAt: time.Now().UTC()}
	err := r.DB.QueryRow(
		`INSERT INTO message_templates (name, body, created_at) VALUES ($1, $2, $3) RETURNING id`,
		t.Name, t.Body, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) Update(id int64, name, body string) error {
	res, err := r.DB.Exec(`UPDATE message_templates SET name=$1, body=$2 WHERE id=$3`, name, body, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("template", id)
	}
	return nil
}

func (r *TemplateRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM message_templates WHERE id=$1`, id)
	return err
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
