// Package queue defines message payloads exchanged over the message broker.
package queue

// InvitationCreatedEvent is published when a car owner invites someone.
// It contains enough information for downstream consumers to send the
// invitation e-mail or log it without querying the primary database.
type InvitationCreatedEvent struct {
	CarID        uint64 `json:"car_id"`
	CarName      string `json:"car_name"`
	OwnerEmail   string `json:"owner_email"`
	InvitedEmail string `json:"invited_email"`
	Token        string `json:"token"`
	DepartsAt    string `json:"departs_at"`
	CreatedAt    string `json:"created_at"`
}
