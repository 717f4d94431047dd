package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/layout"
	"github.com/sitzy/sitzy/internal/model"
	"github.com/sitzy/sitzy/internal/repository"
)

// CarHandler bundles repositories for car CRUD.
type CarHandler struct {
	Cars  *repository.CarRepo
	Users *repository.UserRepo
}

func NewCarHandler(cars *repository.CarRepo, users *repository.UserRepo) *CarHandler {
	return &CarHandler{Cars: cars, Users: users}
}

type carReq struct {
	Name      string    `json:"name"`
	Layout    string    `json:"layout"`
	DepartsAt time.Time `json:"departs_at"`
}

type carOut struct {
	ID          uint64    `json:"id"`
	OwnerID     uint64    `json:"owner_id"`
	Name        string    `json:"name"`
	Layout      layout.ID `json:"layout"`
	LayoutLabel string    `json:"layout_label"`
	MaxSeats    int       `json:"max_seats"`
	DepartsAt   time.Time `json:"departs_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCarOut(car *model.Car) carOut {
	lay := layout.Resolve(car.Layout)
	return carOut{
		ID:          car.ID,
		OwnerID:     car.OwnerID,
		Name:        car.Name,
		Layout:      lay.ID,
		LayoutLabel: lay.Label,
		MaxSeats:    lay.MaxSeats,
		DepartsAt:   car.DepartsAt,
		CreatedAt:   car.CreatedAt,
	}
}

// CreateCar handles POST /v1/cars.  One car per owner; the layout must be a
// known alias (historical spellings are accepted and stored normalized).
func (h *CarHandler) CreateCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !layout.Known(req.Layout) {
		return localized(c, http.StatusBadRequest, "unknown_layout")
	}
	if req.DepartsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departs_at is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car := &model.Car{
		OwnerID:   uid,
		Name:      name,
		Layout:    string(layout.Resolve(req.Layout).ID),
		DepartsAt: req.DepartsAt.UTC(),
	}
	if err := h.Cars.Create(ctx, car); err != nil {
		if err == repository.ErrConflict {
			return localized(c, http.StatusConflict, "user_has_car")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create car failed"})
	}
	created, err := h.Cars.GetByID(ctx, car.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}
	return c.JSON(http.StatusCreated, toCarOut(created))
}

// GetMyCar handles GET /v1/cars/me and returns the caller's own car.
func (h *CarHandler) GetMyCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.GetByOwner(ctx, uid)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return localized(c, http.StatusNotFound, "car_not_found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}
	return c.JSON(http.StatusOK, toCarOut(car))
}

// UpdateCar handles PATCH /v1/cars/:id for the owner.
func (h *CarHandler) UpdateCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !layout.Known(req.Layout) {
		return localized(c, http.StatusBadRequest, "unknown_layout")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	normalized := string(layout.Resolve(req.Layout).ID)
	if err := h.Cars.UpdateByIDAndOwner(ctx, id, uid, name, normalized, req.DepartsAt.UTC()); err != nil {
		if err == repository.ErrCarNotFound {
			return localized(c, http.StatusNotFound, "car_not_yours")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}
	return c.JSON(http.StatusOK, toCarOut(updated))
}

// DeleteCar handles DELETE /v1/cars/:id; invitations, seats and passenger
// links go with the car.
func (h *CarHandler) DeleteCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cars.DeleteByIDAndOwner(ctx, id, uid); err != nil {
		if err == repository.ErrCarNotFound {
			return localized(c, http.StatusNotFound, "car_not_yours")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type layoutSeatOut struct {
	Position int          `json:"position"`
	Label    string       `json:"label"`
	Coord    layout.Coord `json:"coord"`
	Driver   bool         `json:"driver"`
}

// GetCarLayout handles GET /v1/cars/:id/layout and returns the resolved
// seating template with per-seat coordinates and labels, which is everything
// a client needs to draw the vehicle silhouette.
func (h *CarHandler) GetCarLayout(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return localized(c, http.StatusNotFound, "car_not_found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}

	lay := layout.Resolve(car.Layout)
	seats := make([]layoutSeatOut, 0, lay.MaxSeats)
	for pos := 1; pos <= lay.MaxSeats; pos++ {
		seats = append(seats, layoutSeatOut{
			Position: pos,
			Label:    layout.SeatLabel(lay.ID, pos),
			Coord:    lay.SeatCoordinates[pos],
			Driver:   pos == layout.DriverPosition,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        lay.ID,
		"label":     lay.Label,
		"max_seats": lay.MaxSeats,
		"seats":     seats,
	})
}
