package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/model"
	"github.com/sitzy/sitzy/internal/repository"
)

// DashboardHandler aggregates everything the landing screen shows in one
// round trip.
type DashboardHandler struct {
	Cars        *repository.CarRepo
	Users       *repository.UserRepo
	Invitations *repository.InvitationRepo
	Passengers  *repository.PassengerRepo
}

func NewDashboardHandler(cars *repository.CarRepo, users *repository.UserRepo, inv *repository.InvitationRepo, p *repository.PassengerRepo) *DashboardHandler {
	return &DashboardHandler{Cars: cars, Users: users, Invitations: inv, Passengers: p}
}

type dashboardResp struct {
	OwnedCar      *carOut            `json:"owned_car"`
	PassengerCars []carOut           `json:"passenger_cars"`
	Invitations   []model.Invitation `json:"invitations"`
}

// Dashboard handles GET /v1/dashboard: the caller's own car when they have
// one, the cars they ride in, and invitations still waiting for their
// answer.  Invitations are matched by the account's e-mail, so ones sent
// before the user registered show up too.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	me, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	resp := dashboardResp{
		PassengerCars: []carOut{},
		Invitations:   []model.Invitation{},
	}

	if owned, err := h.Cars.GetByOwner(ctx, uid); err == nil {
		out := toCarOut(owned)
		resp.OwnedCar = &out
	} else if err != repository.ErrCarNotFound {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}

	riding, err := h.Cars.ListForPassenger(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cars failed"})
	}
	for i := range riding {
		resp.PassengerCars = append(resp.PassengerCars, toCarOut(&riding[i]))
	}

	pending, err := h.Invitations.ListPendingByEmail(ctx, me.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitations failed"})
	}
	resp.Invitations = pending

	return c.JSON(http.StatusOK, resp)
}

// LeaveCar handles DELETE /v1/dashboard/cars/:id and removes the caller
// from a car they ride in, freeing their seat with the link.
func (h *DashboardHandler) LeaveCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	carID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	linked, err := h.Passengers.CarIDForUser(ctx, uid)
	if err != nil {
		if err == repository.ErrNotPassenger {
			return localized(c, http.StatusForbidden, "not_passenger")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load passenger failed"})
	}
	if linked != carID {
		return localized(c, http.StatusForbidden, "not_passenger")
	}
	if err := h.Passengers.Remove(ctx, carID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "leave failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
