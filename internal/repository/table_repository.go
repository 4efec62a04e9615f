package repository

import (
	"context"
	"database/sql"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// TableRepo provides read access to the dining tables.  Tables are
// reference data: the ordering workflow never mutates them.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// List returns all tables ordered by name.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT id, name, capacity, created_at FROM tables ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID returns a single table.  sql.ErrNoRows is returned when the
// table does not exist.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT id, name, capacity, created_at FROM tables WHERE id = ?`
	var t model.Table
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Capacity, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
