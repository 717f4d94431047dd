package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitzy/sitzy/internal/layout"
)

func sedanSeats() []Seat {
	return []Seat{
		{Position: 1, OccupantLabel: "owner@example.com"},
		{Position: 2, OccupantLabel: ""},
		{Position: 3, OccupantLabel: "rider@example.com"},
		{Position: 4, OccupantLabel: ""},
	}
}

func occupant(seats []Seat, position int) string {
	for _, s := range seats {
		if s.Position == position {
			return s.OccupantLabel
		}
	}
	return ""
}

func TestRequestChooseSeat(t *testing.T) {
	lay := layout.Resolve("sedaq")
	require.Equal(t, 4, lay.MaxSeats)

	next, err := RequestChooseSeat(sedanSeats(), lay, 2, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", occupant(next, 2))
	assert.Equal(t, "owner@example.com", occupant(next, 1))
	assert.Equal(t, "rider@example.com", occupant(next, 3))
}

func TestRequestChooseSeatRejectsDriverAndOutOfRange(t *testing.T) {
	lay := layout.Resolve("SEDAN")
	for _, pos := range []int{0, 1, -3, 5, 99} {
		_, err := RequestChooseSeat(sedanSeats(), lay, pos, "new@example.com")
		assert.ErrorIs(t, err, ErrInvalidPosition, "position %d", pos)
	}

	// Position 3 exists in a sedan but not in a coupé.
	coupe := layout.Resolve("trapaq")
	_, err := RequestChooseSeat(nil, coupe, 3, "new@example.com")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestRequestChooseSeatTaken(t *testing.T) {
	lay := layout.Resolve("SEDAN")
	seats := sedanSeats()

	_, err := RequestChooseSeat(seats, lay, 3, "new@example.com")
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Equal(t, sedanSeats(), seats, "failed request must not touch the list")
}

func TestRequestChooseSeatMovesRequester(t *testing.T) {
	lay := layout.Resolve("SEDAN")

	next, err := RequestChooseSeat(sedanSeats(), lay, 2, "rider@example.com")
	require.NoError(t, err)
	assert.Equal(t, "rider@example.com", occupant(next, 2))
	assert.Equal(t, "", occupant(next, 3), "old seat is vacated in the same update")
}

func TestRequestChooseSeatIdempotent(t *testing.T) {
	lay := layout.Resolve("SEDAN")

	next, err := RequestChooseSeat(sedanSeats(), lay, 3, "rider@example.com")
	require.NoError(t, err)
	assert.Equal(t, sedanSeats(), next)
}

func TestRequestChooseSeatSparseList(t *testing.T) {
	// Server responses list only occupied positions.
	lay := layout.Resolve("MINIVAN")
	seats := []Seat{
		{Position: 1, OccupantLabel: "owner@example.com"},
		{Position: 4, OccupantLabel: "rider@example.com"},
	}

	next, err := RequestChooseSeat(seats, lay, 7, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", occupant(next, 7))
	assert.Equal(t, "rider@example.com", occupant(next, 4))
}

func TestRequestFreeSeat(t *testing.T) {
	next := RequestFreeSeat(sedanSeats(), "rider@example.com")
	assert.Equal(t, "", occupant(next, 3))

	// The driver seat is out of reach even for its own label.
	next = RequestFreeSeat(sedanSeats(), "owner@example.com")
	assert.Equal(t, "owner@example.com", occupant(next, 1))

	// Unknown requester is a no-op.
	assert.Equal(t, sedanSeats(), RequestFreeSeat(sedanSeats(), "ghost@example.com"))
}
