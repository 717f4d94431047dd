// Package repository implements data access over MySQL.  Sentinel errors
// defined here let handlers distinguish failure scenarios: ErrConflict maps
// to HTTP 409 (state that blocks the operation, such as a second car for the
// same owner), the *NotFound values to HTTP 404.
package repository

import (
	"errors"
	"strings"
)

var (
	// ErrConflict is returned when existing state blocks an insert or
	// update, e.g. the owner already has a car or the seat is taken.
	ErrConflict = errors.New("conflict")

	// ErrCarNotFound is returned when a car lookup yields no rows.
	ErrCarNotFound = errors.New("car not found")

	// ErrInvitationNotFound is returned when an invitation token does not
	// resolve to a row.
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrNotPassenger is returned when a user is not linked to any car.
	ErrNotPassenger = errors.New("user is not a passenger")
)

// isDuplicateKey detects the MySQL duplicate-entry error (1062) without
// importing the driver's error types into every call site.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
