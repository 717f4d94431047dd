package model

import "time"

// Car is a planned ride: a named trip with a departure time, a seating
// layout and an owner who always occupies the driver seat.  Each user owns
// at most one car.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – owning user; unique across cars.
//  Name      – display name of the trip.
//  Layout    – canonical layout ID (SEDAN, COUPE, MINIVAN).
//  DepartsAt – planned departure time.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Car struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"owner_id"`
	Name      string    `json:"name"`
	Layout    string    `json:"layout"`
	DepartsAt time.Time `json:"departs_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
