// Package layout is the static catalog of vehicle seating templates.  A
// layout determines how many seats a car has and where each seat sits on the
// top-down vehicle silhouette the frontend renders.  The catalog is pure
// lookup: no I/O, no mutation after init.
package layout

import (
	"fmt"
	"strings"
)

// ID identifies a seating template.  Historical data contains several
// spellings per template (sedaq/SEDAQ/"Sedan (4 seats)" and friends), which
// Resolve normalizes to these canonical values.
type ID string

const (
	Sedan   ID = "SEDAN"
	Coupe   ID = "COUPE"
	Minivan ID = "MINIVAN"
)

// DriverPosition is the seat reserved for the car owner.  It exists in every
// layout and is never assignable to a passenger.
const DriverPosition = 1

// Coord is a normalized position over the vehicle silhouette, expressed as
// percentages of the rendered image (top/left of the seat center).
type Coord struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// SeatLayout describes one seating template.  SeatCoordinates holds exactly
// one entry per position in 1..MaxSeats.
type SeatLayout struct {
	ID              ID            `json:"id"`
	Label           string        `json:"label"`
	MaxSeats        int           `json:"max_seats"`
	SeatCoordinates map[int]Coord `json:"seat_coordinates"`
}

var layouts = map[ID]SeatLayout{
	Sedan: {
		ID:       Sedan,
		Label:    "Sedan (4 místa)",
		MaxSeats: 4,
		SeatCoordinates: map[int]Coord{
			1: {Top: 47, Left: 34},
			2: {Top: 47, Left: 64},
			3: {Top: 70, Left: 34},
			4: {Top: 70, Left: 64},
		},
	},
	Coupe: {
		ID:       Coupe,
		Label:    "Kupé (2 místa)",
		MaxSeats: 2,
		SeatCoordinates: map[int]Coord{
			1: {Top: 57, Left: 33},
			2: {Top: 57, Left: 67},
		},
	},
	Minivan: {
		ID:       Minivan,
		Label:    "Minivan (7 míst)",
		MaxSeats: 7,
		SeatCoordinates: map[int]Coord{
			1: {Top: 44, Left: 35},
			2: {Top: 44, Left: 65},
			3: {Top: 64, Left: 25},
			4: {Top: 64, Left: 50},
			5: {Top: 64, Left: 75},
			6: {Top: 84, Left: 35},
			7: {Top: 84, Left: 65},
		},
	},
}

// seatLabels maps layout and position to the Czech relative-position
// description shown under each seat.
var seatLabels = map[ID]map[int]string{
	Sedan: {
		1: "levé přední",
		2: "pravé přední",
		3: "levé zadní",
		4: "pravé zadní",
	},
	Coupe: {
		1: "levé přední",
		2: "pravé přední",
	},
	Minivan: {
		1: "levé přední",
		2: "pravé přední",
		3: "střední levé",
		4: "střední prostřední",
		5: "střední pravé",
		6: "levé zadní",
		7: "pravé zadní",
	},
}

// Resolve maps any historically seen layout spelling to its catalog entry.
// Matching is case-insensitive and keys on the stable token of each alias
// family ("sedan"/"sedaq", "coup"/"kup"/"trapaq", "mini"/"praq"), so both
// the enum values and display strings stored by older clients, like
// "Kupé (2 místa)" or "Coupé (2 seats)", resolve.  Unknown identifiers
// resolve to the sedan layout; callers that need to reject unknown input
// should check with Known first.
func Resolve(raw string) SeatLayout {
	l := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(l, "sedan") || strings.Contains(l, "sedaq"):
		return layouts[Sedan]
	case strings.Contains(l, "coup") || strings.Contains(l, "kup") || strings.Contains(l, "trapaq"):
		return layouts[Coupe]
	case strings.Contains(l, "mini") || strings.Contains(l, "praq"):
		return layouts[Minivan]
	default:
		return layouts[Sedan]
	}
}

// Known reports whether raw matches any alias of a catalog entry.
func Known(raw string) bool {
	l := strings.ToLower(strings.TrimSpace(raw))
	for _, tok := range []string{"sedan", "sedaq", "coup", "kup", "trapaq", "mini", "praq"} {
		if strings.Contains(l, tok) {
			return true
		}
	}
	return false
}

// Get returns the layout for a canonical ID.  The boolean is false for IDs
// outside the catalog.
func Get(id ID) (SeatLayout, bool) {
	l, ok := layouts[id]
	return l, ok
}

// SeatLabel returns the human-readable position description for a seat.
// Positions outside the known table fall back to a generic "pozice {n}"
// string rather than failing, because old records may carry positions that
// no longer match their layout.
func SeatLabel(id ID, position int) string {
	if m, ok := seatLabels[id]; ok {
		if lbl, ok := m[position]; ok {
			return lbl
		}
	}
	return fmt.Sprintf("pozice %d", position)
}
