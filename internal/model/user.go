package model

import "time"

// Role values stored in users.role.  ADMIN may manage users, the menu
// and settings; STAFF operates the POS (orders, tables, tabs).
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// User represents a back-office account as stored in the `users`
// table.  PasswordHash is never serialized; handlers expose users
// through these json tags directly.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address, stored lower-case.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name shown in the back office.
//  Role         – ADMIN or STAFF.
//  IsActive     – inactive accounts cannot log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`        // users.id
	Email        string    `json:"email"`     // users.email
	PasswordHash string    `json:"-"`         // users.password_hash
	FullName     string    `json:"full_name"` // users.full_name
	Role         string    `json:"role"`      // users.role
	IsActive     bool      `json:"is_active"` // users.is_active
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only
// the SHA-256 hash of the issued token is persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
