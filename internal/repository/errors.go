// Package repository implements the data access layer over MySQL.  This
// file defines sentinel errors reused across repositories so that the
// handler layer can distinguish failure scenarios.  Not-found conditions
// are reported as sql.ErrNoRows (or as a nil result where the contract
// says absence is a normal answer, e.g. "no open session for table").
package repository

import "errors"

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as opening a tab on a table that already has
// an open one, or closing a tab that is already closed.  Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by UserRepo.Create when the email address
// is already registered.
var ErrEmailExists = errors.New("email already exists")
