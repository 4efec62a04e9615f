package repository

import (
	"context"
	"database/sql"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// OrderRepo provides CRUD operations for orders and their line items.
// An order header and its lines are always created together in one
// transaction.  Order totals are captured at creation time and are
// never recomputed here; edits replace header fields only.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `o.id, o.date, o.order_type, o.table_id, t.name, o.session_id, o.order_number,
                   o.payment_method, o.status, o.total_cents, o.customer_name, o.customer_phone,
                   o.notes, o.smac_passed, o.created_at, o.updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var (
		o         model.Order
		tableID   sql.NullInt64
		tableName sql.NullString
		sessionID sql.NullInt64
		orderNum  sql.NullInt64
		custName  sql.NullString
		custPhone sql.NullString
		notes     sql.NullString
	)
	if err := row.Scan(&o.ID, &o.Date, &o.OrderType, &tableID, &tableName, &sessionID, &orderNum,
		&o.PaymentMethod, &o.Status, &o.TotalCents, &custName, &custPhone,
		&notes, &o.SmacPassed, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if tableID.Valid {
		v := uint64(tableID.Int64)
		o.TableID = &v
	}
	if tableName.Valid {
		v := tableName.String
		o.TableName = &v
	}
	if sessionID.Valid {
		v := uint64(sessionID.Int64)
		o.SessionID = &v
	}
	if orderNum.Valid {
		v := uint32(orderNum.Int64)
		o.OrderNumber = &v
	}
	if custName.Valid {
		v := custName.String
		o.CustomerName = &v
	}
	if custPhone.Valid {
		v := custPhone.String
		o.CustomerPhone = &v
	}
	if notes.Valid {
		v := notes.String
		o.Notes = &v
	}
	return &o, nil
}

// Create inserts an order header and its line items atomically: both
// succeed or fail together.  On success the generated ID and the
// database timestamps are populated on the provided order.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (date, order_type, table_id, session_id, order_number, payment_method,
		                     status, total_cents, customer_name, customer_phone, notes, smac_passed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Date, o.OrderType, o.TableID, o.SessionID, o.OrderNumber, o.PaymentMethod,
		o.Status, o.TotalCents, o.CustomerName, o.CustomerPhone, o.Notes, o.SmacPassed)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)

	if len(items) > 0 {
		query := `INSERT INTO order_items (order_id, menu_item_id, name, quantity, price_cents, notes) VALUES `
		args := make([]any, 0, len(items)*6)
		for i, it := range items {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?)"
			args = append(args, o.ID, it.MenuItemID, it.Name, it.Quantity, it.PriceCents, it.Notes)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	// Query back timestamps so the caller sees what was persisted.
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM orders WHERE id = ?`, o.ID).
		Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByDate returns all orders for a business date (YYYY-MM-DD), or
// all orders when date is empty.  Newest first.
func (r *OrderRepo) ListByDate(ctx context.Context, date string) ([]model.Order, error) {
	q := `SELECT ` + orderCols + `
	      FROM orders o
	      LEFT JOIN tables t ON t.id = o.table_id`
	args := []any{}
	if date != "" {
		q += ` WHERE o.date = ?`
		args = append(args, date)
	}
	q += ` ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// GetByID returns a single order.  sql.ErrNoRows when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	const q = `SELECT ` + orderCols + `
	           FROM orders o
	           LEFT JOIN tables t ON t.id = o.table_id
	           WHERE o.id = ?`
	return scanOrder(r.db.QueryRowContext(ctx, q, id))
}

// SessionOrders returns all tickets under a session in ticket-number
// order, earliest first.
func (r *OrderRepo) SessionOrders(ctx context.Context, sessionID uint64) ([]model.Order, error) {
	const q = `SELECT ` + orderCols + `
	           FROM orders o
	           LEFT JOIN tables t ON t.id = o.table_id
	           WHERE o.session_id = ?
	           ORDER BY o.order_number, o.created_at`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// NextTicketNumber returns the next 1-based ticket number for a
// session.  This is a plain MAX+1 read with no lock: two tickets being
// prepared concurrently for the same session can observe the same
// value.  Ticket numbers are display hints, not keys, so duplicates
// are tolerated instead of serializing ticket creation.
func (r *OrderRepo) NextTicketNumber(ctx context.Context, sessionID uint64) (uint32, error) {
	var next uint32
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_number), 0) + 1 FROM orders WHERE session_id = ?`,
		sessionID).Scan(&next)
	return next, err
}

// Items returns the line items of an order in insertion order.
func (r *OrderRepo) Items(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	const q = `SELECT id, order_id, menu_item_id, name, quantity, price_cents, notes
	           FROM order_items WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.OrderItem, 0)
	for rows.Next() {
		var (
			it    model.OrderItem
			notes sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.Quantity, &it.PriceCents, &notes); err != nil {
			return nil, err
		}
		if notes.Valid {
			v := notes.String
			it.Notes = &v
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateStatus persists a new lifecycle status.  sql.ErrNoRows is
// returned when the order does not exist.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Update replaces the editable header fields of an order.  The total is
// deliberately not part of the patch.  sql.ErrNoRows when absent.
func (r *OrderRepo) Update(ctx context.Context, id uint64, p model.OrderPatch) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET order_type = ?, table_id = ?, payment_method = ?, status = ?,
		     customer_name = ?, customer_phone = ?, notes = ?, smac_passed = ?,
		     updated_at = NOW()
		 WHERE id = ?`,
		p.OrderType, p.TableID, p.PaymentMethod, p.Status,
		p.CustomerName, p.CustomerPhone, p.Notes, p.SmacPassed, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes an order permanently.  Line items go with it via the
// ON DELETE CASCADE foreign key.  sql.ErrNoRows when absent.  The
// owning session's total, if any, is intentionally not recomputed here;
// see the workflow notes.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow converts a zero-rows-affected result into sql.ErrNoRows.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
