// Package reconcile implements the optimistic state transitions for a car's
// invitation and seat lists.  Every operation is pure: it takes the current
// list, returns a fresh one and never mutates its input, so the caller keeps
// the prior slice as the rollback point while a network round trip is in
// flight.  Commits and rollbacks match entries by token, never by index,
// because concurrent in-flight operations can resolve out of order.
package reconcile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an invitation.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Invitation is one entry in a car's invitation list.  During the optimistic
// phase Token holds a locally generated placeholder; CommitInvite swaps the
// entry for the server record carrying the authoritative token.
type Invitation struct {
	Token        string    `json:"token"`
	InvitedEmail string    `json:"invited_email"`
	Status       Status    `json:"status"`
	CarID        uint64    `json:"car_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// placeholderPrefix marks tokens that were generated locally and have not
// been confirmed by the server yet.
const placeholderPrefix = "tmp-"

func newPlaceholderToken() string {
	return placeholderPrefix + uuid.NewString()
}

// RequestInvite validates and optimistically appends a pending invitation
// for email.  Preconditions, checked in order: the email must contain "@"
// (ErrInvalidEmail), must not already be pending on this list
// (ErrDuplicatePending, case-insensitive) and must not be the inviter's own
// address (ErrSelfInvite).  On success it returns the extended list and the
// placeholder token the caller later passes to CommitInvite or
// RollbackInvite.  The stored email is lowercased.
func RequestInvite(list []Invitation, email, inviterEmail string, carID uint64) ([]Invitation, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(normalized, "@") {
		return nil, "", ErrInvalidEmail
	}
	for _, inv := range list {
		if inv.Status == StatusPending && strings.EqualFold(inv.InvitedEmail, normalized) {
			return nil, "", ErrDuplicatePending
		}
	}
	if strings.EqualFold(normalized, strings.TrimSpace(inviterEmail)) {
		return nil, "", ErrSelfInvite
	}

	token := newPlaceholderToken()
	next := make([]Invitation, 0, len(list)+1)
	next = append(next, list...)
	next = append(next, Invitation{
		Token:        token,
		InvitedEmail: normalized,
		Status:       StatusPending,
		CarID:        carID,
		CreatedAt:    time.Now().UTC(),
	})
	return next, token, nil
}

// CommitInvite replaces the entry holding placeholderToken with the server
// record.  When the placeholder is no longer on the list (for example a
// cancel raced the create), the server record is discarded: the server owns
// the question of whether the invitation still matters, and a stale commit
// must not resurrect a canceled entry.
func CommitInvite(list []Invitation, placeholderToken string, serverRecord Invitation) []Invitation {
	next := make([]Invitation, len(list))
	copy(next, list)
	for i := range next {
		if next[i].Token == placeholderToken {
			next[i] = serverRecord
			return next
		}
	}
	return next
}

// RollbackInvite removes the entry holding placeholderToken.  It is a no-op
// when the token is absent.
func RollbackInvite(list []Invitation, placeholderToken string) []Invitation {
	next := make([]Invitation, 0, len(list))
	for _, inv := range list {
		if inv.Token != placeholderToken {
			next = append(next, inv)
		}
	}
	return next
}

// RequestCancel optimistically removes the invitation identified by token.
// ErrNotFound is returned when the token is not on the list.  There is no
// local undo for a cancel: on a failed network delete the caller re-fetches
// the authoritative list instead of restoring the removed entry from memory.
func RequestCancel(list []Invitation, token string) ([]Invitation, error) {
	found := false
	next := make([]Invitation, 0, len(list))
	for _, inv := range list {
		if inv.Token == token {
			found = true
			continue
		}
		next = append(next, inv)
	}
	if !found {
		return nil, ErrNotFound
	}
	return next, nil
}

// RequestRespond optimistically resolves a pending invitation to accepted or
// rejected and returns the previous status for RollbackRespond.  It returns
// ErrNotPending both for unknown tokens and for entries already resolved;
// a duplicate respond is an error, not a silent re-apply.
func RequestRespond(list []Invitation, token string, accept bool) ([]Invitation, Status, error) {
	for i, inv := range list {
		if inv.Token != token {
			continue
		}
		if inv.Status != StatusPending {
			return nil, "", ErrNotPending
		}
		next := make([]Invitation, len(list))
		copy(next, list)
		if accept {
			next[i].Status = StatusAccepted
		} else {
			next[i].Status = StatusRejected
		}
		return next, inv.Status, nil
	}
	return nil, "", ErrNotPending
}

// RollbackRespond restores the status recorded before RequestRespond.  It is
// a no-op when the token is absent.
func RollbackRespond(list []Invitation, token string, previous Status) []Invitation {
	next := make([]Invitation, len(list))
	copy(next, list)
	for i := range next {
		if next[i].Token == token {
			next[i].Status = previous
			break
		}
	}
	return next
}
