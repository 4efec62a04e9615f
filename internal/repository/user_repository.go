package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
	"github.com/andreafabbri97/restaurant-manager/internal/utils"
)

// UserRepo manages back-office accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, email, password_hash, full_name, role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user with the given email.  sql.ErrNoRows when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, strings.ToLower(email)))
}

// GetByID returns the user with the given id.  sql.ErrNoRows when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Create hashes the password and inserts a new user, returning its id.
// ErrEmailExists when the email is already registered.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName, role string, bcryptCost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, ErrEmailExists
	}
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, full_name, role, is_active) VALUES (?, ?, ?, ?, 1)`,
		email, hash, fullName, role)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// Update replaces a user's profile fields.  The password is changed
// only when newPassword is non-empty.  sql.ErrNoRows when absent.
func (r *UserRepo) Update(ctx context.Context, id uint64, fullName, role string, isActive bool, newPassword string, bcryptCost int) error {
	if newPassword != "" {
		hash, err := utils.HashPassword(newPassword, bcryptCost)
		if err != nil {
			return err
		}
		res, err := r.db.ExecContext(ctx,
			`UPDATE users SET full_name = ?, role = ?, is_active = ?, password_hash = ?, updated_at = NOW() WHERE id = ?`,
			fullName, role, isActive, hash, id)
		if err != nil {
			return err
		}
		return requireRow(res)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET full_name = ?, role = ?, is_active = ?, updated_at = NOW() WHERE id = ?`,
		fullName, role, isActive, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a user account.  sql.ErrNoRows when absent.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
