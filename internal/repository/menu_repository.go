package repository

import (
	"context"
	"database/sql"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// MenuRepo manages categories and menu items.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo returns a new MenuRepo bound to the given database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

// Categories returns all categories in display order.
func (r *MenuRepo) Categories(ctx context.Context) ([]model.Category, error) {
	const q = `SELECT id, name, sort_order, created_at FROM categories ORDER BY sort_order, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Items returns menu items, optionally restricted to available ones
// (the order-entry screen only offers what is currently sellable).
func (r *MenuRepo) Items(ctx context.Context, onlyAvailable bool) ([]model.MenuItem, error) {
	q := `SELECT id, category_id, name, description, price_cents, available, created_at, updated_at
	      FROM menu_items`
	if onlyAvailable {
		q += ` WHERE available = 1`
	}
	q += ` ORDER BY category_id, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// ItemByID returns a single menu item.  sql.ErrNoRows when absent.
func (r *MenuRepo) ItemByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	const q = `SELECT id, category_id, name, description, price_cents, available, created_at, updated_at
	           FROM menu_items WHERE id = ?`
	return scanMenuItem(r.db.QueryRowContext(ctx, q, id))
}

func scanMenuItem(row interface{ Scan(...any) error }) (*model.MenuItem, error) {
	var (
		m    model.MenuItem
		desc sql.NullString
	)
	if err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &desc, &m.PriceCents, &m.Available, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		v := desc.String
		m.Description = &v
	}
	return &m, nil
}

// CreateCategory inserts a category and returns its id.
func (r *MenuRepo) CreateCategory(ctx context.Context, name string, sortOrder uint32) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, sort_order) VALUES (?, ?)`, name, sortOrder)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// UpdateCategory renames/reorders a category.  sql.ErrNoRows when absent.
func (r *MenuRepo) UpdateCategory(ctx context.Context, id uint64, name string, sortOrder uint32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, sort_order = ? WHERE id = ?`, name, sortOrder, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteCategory removes a category.  ErrConflict when menu items still
// reference it.
func (r *MenuRepo) DeleteCategory(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM menu_items WHERE category_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CreateItem inserts a menu item and returns its id.
func (r *MenuRepo) CreateItem(ctx context.Context, m *model.MenuItem) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_items (category_id, name, description, price_cents, available)
		 VALUES (?, ?, ?, ?, ?)`,
		m.CategoryID, m.Name, m.Description, m.PriceCents, m.Available)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// UpdateItem replaces the editable fields of a menu item.  Price
// changes only affect future carts; existing carts and orders hold
// snapshots.  sql.ErrNoRows when absent.
func (r *MenuRepo) UpdateItem(ctx context.Context, id uint64, m *model.MenuItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items
		 SET category_id = ?, name = ?, description = ?, price_cents = ?, available = ?, updated_at = NOW()
		 WHERE id = ?`,
		m.CategoryID, m.Name, m.Description, m.PriceCents, m.Available, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetAvailability toggles the available flag.  sql.ErrNoRows when absent.
func (r *MenuRepo) SetAvailability(ctx context.Context, id uint64, available bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET available = ?, updated_at = NOW() WHERE id = ?`, available, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteItem removes a menu item.  Past order lines keep their name and
// price snapshots, so deletion does not disturb history.
func (r *MenuRepo) DeleteItem(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
