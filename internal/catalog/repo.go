// Package catalog provides the repository interface and PostgreSQL
// implementation for menu items and tables.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("catalog item not found")
)

type Query struct {
	Category string
	Search   string
}

type Repository interface {
	ListAvailable(ctx context.Context, q Query) ([]MenuItem, error)
	GetByID(ctx context.Context, id string) (*MenuItem, error)
	GetByName(ctx context.Context, name string) (*MenuItem, error)
	Create(ctx context.Context, m *MenuItem) error
	GetTable(ctx context.Context, id string) (*Table, error)
	ListAvailableTables(ctx context.Context) ([]Table, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const menuItemCols = `id, name, description, price::text, category, is_available, is_vegetarian, is_vegan, preparation_time, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (*MenuItem, error) {
	var m MenuItem
	var price string
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &price, &m.Category,
		&m.IsAvailable, &m.IsVegetarian, &m.IsVegan, &m.PreparationTime,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	m.Price = p
	return &m, nil
}

func (r *PGRepo) ListAvailable(ctx context.Context, q Query) ([]MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	search := strings.TrimSpace(q.Search)

	rows, err := r.db.Query(ctx, `
		SELECT `+menuItemCols+`
		FROM menu_items
		WHERE is_available
		  AND ($1 = '' OR category = $1)
		  AND ($2 = '' OR name ILIKE '%'||$2||'%' OR description ILIKE '%'||$2||'%')
		ORDER BY category, name, id
	`, q.Category, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	m, err := scanMenuItem(r.db.QueryRow(ctx, `
		SELECT `+menuItemCols+` FROM menu_items WHERE id=$1
	`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (r *PGRepo) GetByName(ctx context.Context, name string) (*MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	m, err := scanMenuItem(r.db.QueryRow(ctx, `
		SELECT `+menuItemCols+` FROM menu_items WHERE name=$1
	`, name))
	if err != nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (r *PGRepo) Create(ctx context.Context, m *MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_items (id, name, description, price, category, is_available, is_vegetarian, is_vegan, preparation_time, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
	`, m.ID, m.Name, m.Description, m.Price.StringFixed(2), m.Category,
		m.IsAvailable, m.IsVegetarian, m.IsVegan, m.PreparationTime)
	return err
}

func (r *PGRepo) GetTable(ctx context.Context, id string) (*Table, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var t Table
	err := r.db.QueryRow(ctx, `
		SELECT id, table_number, capacity, is_available FROM tables WHERE id=$1
	`, id).Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.IsAvailable)
	if err != nil {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r *PGRepo) ListAvailableTables(ctx context.Context) ([]Table, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, table_number, capacity, is_available
		FROM tables WHERE is_available ORDER BY table_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
