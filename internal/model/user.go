package model

import "time"

// User is an account that can own one car and sit as a passenger in another.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login address, stored lowercased.
//  PasswordHash – bcrypt hash of the password.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
