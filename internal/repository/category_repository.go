package repository

import (
	"database/sql"
	"fmt"
	"time"

	appErrors "github.com/silversky/partnersms-backend/internal/errors"
	"github.com/silversky/partnersms-backend/internal/model"
)

// CategoryKind names one of the segmentation lookup tables.
type CategoryKind string

const (
	KindRegion  CategoryKind = "region"
	KindTSD     CategoryKind = "tsd"
	KindProduct CategoryKind = "product"
)

// table and in-use check per kind. Regions and TSDs are referenced from
// the partners row directly; products through the join table.
var categoryTables = map[CategoryKind]struct {
	table      string
	inUseQuery string
}{
	KindRegion:  {"regions", `SELECT COUNT(*) FROM partners WHERE region_id=$1`},
	KindTSD:     {"tsds", `SELECT COUNT(*) FROM partners WHERE tsd_id=$1`},
	KindProduct: {"products", `SELECT COUNT(*) FROM partner_products WHERE product_id=$1`},
}

type CategoryRepositoryInterface interface {
	List(kind CategoryKind) ([]model.Category, error)
	Create(kind CategoryKind, name string) (*model.Category, error)
	Rename(kind CategoryKind, id int64, name string) error
	Delete(kind CategoryKind, id int64) error
}

type CategoryRepository struct {
	DB *sql.DB
}

func (r *CategoryRepository) List(kind CategoryKind) ([]model.Category, error) {
	t := categoryTables[kind]
	rows, err := r.DB.Query(fmt.Sprintf(`SELECT id, name, created_at FROM %s ORDER BY name`, t.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Create(kind CategoryKind, name string) (*model.Category, error) {
	t := categoryTables[kind]
	c := model.Category{Name: name, CreatedAt: time.Now().UTC()}
	err := r.DB.QueryRow(
		fmt.Sprintf(`INSERT INTO %s (name, created_at) VALUES ($1, $2) RETURNING id`, t.table),
		c.Name, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Rename(kind CategoryKind, id int64, name string) error {
	t := categoryTables[kind]
	res, err := r.DB.Exec(fmt.Sprintf(`UPDATE %s SET name=$1 WHERE id=$2`, t.table), name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound(string(kind), id)
	}
	return nil
}

// Delete removes a category unless it is still referenced by partners,
// in which case the conflict is reported to the caller.
func (r *CategoryRepository) Delete(kind CategoryKind, id int64) error {
	t := categoryTables[kind]

	var count int
	if err := r.DB.QueryRow(t.inUseQuery, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return &appErrors.CategoryInUseError{Kind: string(kind), ID: id, Count: count}
	}

	res, err := r.DB.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, t.table), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound(string(kind), id)
	}
	return nil
}

var _ CategoryRepositoryInterface = (*CategoryRepository)(nil)

// ====================== Tags ======================

type TagRepositoryInterface interface {
	List() ([]model.Tag, error)
	Create(name, color string) (*model.Tag, error)
	Update(id int64, name, color string) error
	Delete(id int64) error
}

type TagRepository struct {
	DB *sql.DB
}

func (r *TagRepository) List() ([]model.Tag, error) {
	rows, err := r.DB.Query(`SELECT id, name, color, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) Create(name, color string) (*model.Tag, error) {
	if color == "" {
		color = "accent"
	}
	t := model.Tag{Name: name, Color: color, CreatedAt: time.Now().UTC()}
	err := r.DB.QueryRow(
		`INSERT INTO tags (name, color, created_at) VALUES ($1, $2, $3) RETURNING id`,
		t.Name, t.Color, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagRepository) Update(id int64, name, color string) error {
	res, err := r.DB.Exec(`UPDATE tags SET name=$1, color=$2 WHERE id=$3`, name, color, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("tag", id)
	}
	return nil
}

func (r *TagRepository) Delete(id int64) error {
	var count int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM partner_tags WHERE tag_id=$1`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return &appErrors.CategoryInUseError{Kind: "tag", ID: id, Count: count}
	}
	_, err := r.DB.Exec(`DELETE FROM tags WHERE id=$1`, id)
	return err
}

var _ TagRepositoryInterface = (*TagRepository)(nil)
