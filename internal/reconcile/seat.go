package reconcile

import "github.com/sitzy/sitzy/internal/layout"

// Seat is one assignable position in a car.  An empty OccupantLabel means
// the seat is free.  Position layout.DriverPosition always belongs to the
// car owner and is outside the reach of these operations.
type Seat struct {
	Position      int    `json:"position"`
	OccupantLabel string `json:"occupant_label,omitempty"`
}

// RequestChooseSeat assigns position to requesterLabel.  The position must
// lie in [2..lay.MaxSeats] (ErrInvalidPosition; the driver seat is never
// choosable) and must be free (ErrSeatTaken).  When the requester already
// occupies another seat it is vacated in the same update, so a requester
// holds at most one non-driver seat.  Choosing the seat the requester
// already occupies is a no-op, not an error.
func RequestChooseSeat(seats []Seat, lay layout.SeatLayout, position int, requesterLabel string) ([]Seat, error) {
	if position <= layout.DriverPosition || position > lay.MaxSeats {
		return nil, ErrInvalidPosition
	}
	for _, s := range seats {
		if s.Position == position && s.OccupantLabel != "" {
			if s.OccupantLabel == requesterLabel {
				next := make([]Seat, len(seats))
				copy(next, seats)
				return next, nil
			}
			return nil, ErrSeatTaken
		}
	}

	next := make([]Seat, len(seats))
	copy(next, seats)
	placed := false
	for i := range next {
		switch {
		case next[i].Position == position:
			next[i].OccupantLabel = requesterLabel
			placed = true
		case next[i].OccupantLabel == requesterLabel && next[i].Position != layout.DriverPosition:
			next[i].OccupantLabel = ""
		}
	}
	if !placed {
		// The seat slice may be sparse and only list occupied positions.
		filtered := next[:0]
		for _, s := range next {
			if s.OccupantLabel != "" {
				filtered = append(filtered, s)
			}
		}
		next = append(filtered, Seat{Position: position, OccupantLabel: requesterLabel})
	}
	return next, nil
}

// RequestFreeSeat vacates whichever non-driver seat requesterLabel occupies.
// It is a no-op when the requester holds no seat.
func RequestFreeSeat(seats []Seat, requesterLabel string) []Seat {
	next := make([]Seat, len(seats))
	copy(next, seats)
	for i := range next {
		if next[i].Position != layout.DriverPosition && next[i].OccupantLabel == requesterLabel {
			next[i].OccupantLabel = ""
		}
	}
	return next
}
