package model

import "time"

// Invitation offers a specific email a passenger spot in a car.  The token
// is the public identifier used in e-mail deep links; the numeric ID never
// leaves the database layer.
//
// Fields:
//  ID           – primary key identifier.
//  CarID        – car the invitation belongs to.
//  InvitedEmail – invited address, stored lowercased.
//  Token        – opaque unique identifier, server-generated.
//  Status       – PENDING, ACCEPTED or REJECTED.
//  CreatedAt    – creation timestamp.
type Invitation struct {
	ID           uint64    `json:"-"`
	CarID        uint64    `json:"car_id"`
	InvitedEmail string    `json:"invited_email"`
	Token        string    `json:"token"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
