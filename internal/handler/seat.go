package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/layout"
	"github.com/sitzy/sitzy/internal/model"
	"github.com/sitzy/sitzy/internal/reconcile"
	"github.com/sitzy/sitzy/internal/repository"
)

// SeatHandler bundles repositories for seat assignment.  All endpoints are
// passenger-scoped: the car is implied by the caller's passenger link, there
// is no car id in the request.
type SeatHandler struct {
	Seats      *repository.SeatRepo
	Cars       *repository.CarRepo
	Users      *repository.UserRepo
	Passengers *repository.PassengerRepo
}

func NewSeatHandler(s *repository.SeatRepo, cars *repository.CarRepo, users *repository.UserRepo, p *repository.PassengerRepo) *SeatHandler {
	return &SeatHandler{Seats: s, Cars: cars, Users: users, Passengers: p}
}

type chooseSeatReq struct {
	Position int `json:"position"`
}

type seatOut struct {
	Position int          `json:"position"`
	Label    string       `json:"label"`
	Coord    layout.Coord `json:"coord"`
	Occupant string       `json:"occupant,omitempty"`
	Driver   bool         `json:"driver"`
}

// carForPassenger resolves the car the caller rides in.  On failure the
// response has already been written and the returned car is nil.
func (h *SeatHandler) carForPassenger(ctx context.Context, c echo.Context, uid uint64) (*model.Car, error) {
	carID, err := h.Passengers.CarIDForUser(ctx, uid)
	if err != nil {
		if err == repository.ErrNotPassenger {
			return nil, localized(c, http.StatusForbidden, "not_passenger")
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "load passenger failed"})
	}
	car, err := h.Cars.GetByID(ctx, carID)
	if err != nil {
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}
	return car, nil
}

// currentSeats builds the reconciler's view of a car: the driver seat held
// by the owner plus every occupied passenger seat.
func (h *SeatHandler) currentSeats(ctx context.Context, car *model.Car) ([]reconcile.Seat, error) {
	owner, err := h.Users.GetByID(ctx, car.OwnerID)
	if err != nil {
		return nil, err
	}
	occupied, err := h.Seats.ListByCar(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	seats := make([]reconcile.Seat, 0, len(occupied)+1)
	seats = append(seats, reconcile.Seat{Position: layout.DriverPosition, OccupantLabel: owner.Email})
	for _, s := range occupied {
		seats = append(seats, reconcile.Seat{Position: s.Position, OccupantLabel: s.Email})
	}
	return seats, nil
}

// ListSeats handles GET /v1/seats.  The response lists every position of the
// layout with its label, coordinates and occupant, ready to render as a seat
// map.
func (h *SeatHandler) ListSeats(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, errResp := h.carForPassenger(ctx, c, uid)
	if car == nil {
		return errResp
	}
	seats, err := h.currentSeats(ctx, car)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}

	lay := layout.Resolve(car.Layout)
	occupants := make(map[int]string, len(seats))
	for _, s := range seats {
		occupants[s.Position] = s.OccupantLabel
	}
	out := make([]seatOut, 0, lay.MaxSeats)
	for pos := 1; pos <= lay.MaxSeats; pos++ {
		out = append(out, seatOut{
			Position: pos,
			Label:    layout.SeatLabel(lay.ID, pos),
			Coord:    lay.SeatCoordinates[pos],
			Occupant: occupants[pos],
			Driver:   pos == layout.DriverPosition,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"car_id": car.ID,
		"layout": lay.ID,
		"seats":  out,
	})
}

// ChooseSeat handles POST /v1/seats/choose and PATCH /v1/seats/change.  The
// request runs through the same precondition chain the client evaluates
// before showing the move, so server rejections mirror what the UI already
// disallowed.  The owner never goes through here: they are pinned to the
// driver position and hold no passenger link.
func (h *SeatHandler) ChooseSeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req chooseSeatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, errResp := h.carForPassenger(ctx, c, uid)
	if car == nil {
		return errResp
	}
	me, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	seats, err := h.currentSeats(ctx, car)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}

	lay := layout.Resolve(car.Layout)
	if _, err := reconcile.RequestChooseSeat(seats, lay, req.Position, me.Email); err != nil {
		return validationError(c, err)
	}

	// Re-choosing the held seat changes nothing.
	if cur, err := h.Seats.PositionForUser(ctx, car.ID, uid); err == nil && cur == req.Position {
		return c.JSON(http.StatusOK, echo.Map{"position": cur})
	}
	if err := h.Seats.Upsert(ctx, car.ID, uid, req.Position); err != nil {
		if err == repository.ErrConflict {
			// Lost a race for the position since the list was loaded.
			return localized(c, http.StatusConflict, "seat_taken")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save seat failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"position": req.Position})
}

// FreeSeat handles DELETE /v1/seats and vacates the caller's seat.  The
// request runs through the same no-op check the client applies, so freeing
// without a seat answers 404 on both sides.
func (h *SeatHandler) FreeSeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, errResp := h.carForPassenger(ctx, c, uid)
	if car == nil {
		return errResp
	}
	me, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	seats, err := h.currentSeats(ctx, car)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}

	// RequestFreeSeat leaves the slice untouched when the caller holds no
	// seat; surface that as 404 instead of deleting nothing.
	next := reconcile.RequestFreeSeat(seats, me.Email)
	held := false
	for i := range seats {
		if seats[i].OccupantLabel != next[i].OccupantLabel {
			held = true
			break
		}
	}
	if !held {
		return localized(c, http.StatusNotFound, "user_not_in_seat")
	}

	if err := h.Seats.DeleteByUser(ctx, car.ID, uid); err != nil {
		if err == repository.ErrSeatNotFound {
			return localized(c, http.StatusNotFound, "user_not_in_seat")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "free seat failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
