package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// SessionRepo manages table sessions (open tabs).  A session is open
// while closed_at is NULL; the schema plus the Open guard below keep
// the invariant of at most one open session per table.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionCols = `s.id, s.table_id, t.name, s.covers, s.customer_name, s.customer_phone,
                     s.total_cents, s.opened_at, s.closed_at`

func scanSession(row interface{ Scan(...any) error }) (*model.TableSession, error) {
	var (
		s     model.TableSession
		name  sql.NullString
		phone sql.NullString
	)
	var closedAt sql.NullTime
	if err := row.Scan(&s.ID, &s.TableID, &s.TableName, &s.Covers, &name, &phone,
		&s.TotalCents, &s.OpenedAt, &closedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		v := name.String
		s.CustomerName = &v
	}
	if phone.Valid {
		v := phone.String
		s.CustomerPhone = &v
	}
	if closedAt.Valid {
		t := closedAt.Time
		s.ClosedAt = &t
	}
	return &s, nil
}

// GetByID returns the session with the given id, open or closed, or
// (nil, nil) when it does not exist.  Absence is a normal answer here:
// the workflow degrades a dead deep link to a standalone order instead
// of failing hard.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.TableSession, error) {
	const q = `SELECT ` + sessionCols + `
	           FROM table_sessions s
	           JOIN tables t ON t.id = s.table_id
	           WHERE s.id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// ActiveForTable returns the open session for a table, or (nil, nil)
// when the table has none.
func (r *SessionRepo) ActiveForTable(ctx context.Context, tableID uint64) (*model.TableSession, error) {
	const q = `SELECT ` + sessionCols + `
	           FROM table_sessions s
	           JOIN tables t ON t.id = s.table_id
	           WHERE s.table_id = ? AND s.closed_at IS NULL`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, tableID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// ListOpen returns all open sessions, oldest first.  Used by the table
// overview to mark occupied tables.
func (r *SessionRepo) ListOpen(ctx context.Context) ([]model.TableSession, error) {
	const q = `SELECT ` + sessionCols + `
	           FROM table_sessions s
	           JOIN tables t ON t.id = s.table_id
	           WHERE s.closed_at IS NULL
	           ORDER BY s.opened_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TableSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Open creates a new session for a table.  It returns ErrConflict when
// the table already has an open session.  The existence check and the
// insert run in a transaction so two concurrent opens cannot both
// succeed.
func (r *SessionRepo) Open(ctx context.Context, tableID uint64, covers uint32, customerName, customerPhone *string) (*model.TableSession, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM table_sessions WHERE table_id = ? AND closed_at IS NULL FOR UPDATE`,
		tableID).Scan(&existing)
	switch {
	case err == nil:
		return nil, ErrConflict
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO table_sessions (table_id, covers, customer_name, customer_phone, total_cents)
		 VALUES (?, ?, ?, ?, 0)`,
		tableID, covers, customerName, customerPhone)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Query back the full row to populate timestamps and the table name.
	const sel = `SELECT ` + sessionCols + `
	             FROM table_sessions s
	             JOIN tables t ON t.id = s.table_id
	             WHERE s.id = ?`
	s, err := scanSession(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return s, nil
}

// Close stamps closed_at on an open session.  ErrConflict is returned
// when the session does not exist or is already closed.  Settlement
// details (payment, split bill) are handled elsewhere.
func (r *SessionRepo) Close(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE table_sessions SET closed_at = NOW() WHERE id = ? AND closed_at IS NULL`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// RecomputeTotal re-derives a session's running total from its tickets
// and persists it.  It runs as a single statement; there is no
// optimistic-concurrency check, so concurrent recomputations are
// last-writer-wins.
func (r *SessionRepo) RecomputeTotal(ctx context.Context, sessionID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE table_sessions
		 SET total_cents = (SELECT COALESCE(SUM(total_cents), 0) FROM orders WHERE session_id = ?)
		 WHERE id = ?`,
		sessionID, sessionID)
	return err
}
