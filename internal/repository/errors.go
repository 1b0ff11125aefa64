// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish
// failure scenarios: ErrNotFound maps to HTTP 404, ErrConflict signals an
// operation blocked by dependent records (deleting a driver that still has
// jobs), and ErrEmailExists covers the unique email constraint on drivers.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested row does not exist (or, for
// driver-scoped job actions, is not owned by the caller).
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a delete cannot proceed because other rows
// still reference the target.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when a driver insert or update collides with
// an existing email.
var ErrEmailExists = errors.New("email already exists")

// isUniqueViolation matches the unique constraint error text of both
// backends (SQLite: "UNIQUE constraint failed", Postgres: "duplicate key
// value violates unique constraint").
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint")
}
