package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/model"
	"github.com/sitzy/sitzy/internal/queue"
	"github.com/sitzy/sitzy/internal/reconcile"
	"github.com/sitzy/sitzy/internal/repository"
	queue_publisher "github.com/sitzy/sitzy/internal/service"
	"github.com/sitzy/sitzy/internal/utils"
)

// InvitationHandler bundles repositories for the invitation lifecycle.
type InvitationHandler struct {
	Invitations *repository.InvitationRepo
	Cars        *repository.CarRepo
	Users       *repository.UserRepo
	Passengers  *repository.PassengerRepo
}

func NewInvitationHandler(i *repository.InvitationRepo, cars *repository.CarRepo, users *repository.UserRepo, p *repository.PassengerRepo) *InvitationHandler {
	return &InvitationHandler{Invitations: i, Cars: cars, Users: users, Passengers: p}
}

type inviteReq struct {
	Email string `json:"email"`
}

type respondReq struct {
	Accept bool `json:"accept"`
}

// reconcileList converts persisted invitations into the reconciler's shape.
func reconcileList(invs []model.Invitation) []reconcile.Invitation {
	list := make([]reconcile.Invitation, 0, len(invs))
	for _, inv := range invs {
		list = append(list, reconcile.Invitation{
			Token:        inv.Token,
			InvitedEmail: inv.InvitedEmail,
			Status:       reconcile.Status(inv.Status),
			CarID:        inv.CarID,
			CreatedAt:    inv.CreatedAt,
		})
	}
	return list
}

// CreateInvitation handles POST /v1/cars/:id/invitations.  The car's
// current list runs through the same precondition chain the client applies
// optimistically, so both sides reject for identical reasons: missing "@",
// a pending duplicate, or a self-invite.
func (h *InvitationHandler) CreateInvitation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	carID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req inviteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, carID)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return localized(c, http.StatusNotFound, "car_not_found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}
	if car.OwnerID != uid {
		return localized(c, http.StatusForbidden, "car_not_yours")
	}
	owner, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	existing, err := h.Invitations.ListByCar(ctx, carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitations failed"})
	}
	if _, _, err := reconcile.RequestInvite(reconcileList(existing), req.Email, owner.Email, carID); err != nil {
		return validationError(c, err)
	}

	token, err := utils.NewInviteToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	inv := &model.Invitation{
		CarID:        carID,
		InvitedEmail: strings.ToLower(strings.TrimSpace(req.Email)),
		Token:        token,
		Status:       string(reconcile.StatusPending),
	}
	if err := h.Invitations.Create(ctx, inv); err != nil {
		if err == repository.ErrConflict {
			return localized(c, http.StatusConflict, "duplicate_pending")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create invitation failed"})
	}
	created, err := h.Invitations.GetByToken(ctx, token)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitation failed"})
	}

	// Best effort; invitation delivery must not block the response.
	go func(ev queue.InvitationCreatedEvent) {
		_ = queue_publisher.PublishInvitationCreated(context.Background(), ev)
	}(queue.InvitationCreatedEvent{
		CarID:        car.ID,
		CarName:      car.Name,
		OwnerEmail:   owner.Email,
		InvitedEmail: created.InvitedEmail,
		Token:        created.Token,
		DepartsAt:    car.DepartsAt.Format(time.RFC3339),
		CreatedAt:    created.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, created)
}

// ListInvitations handles GET /v1/cars/:id/invitations for the owner.
func (h *InvitationHandler) ListInvitations(c echo.Context) error {
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

	car, err := h.Cars.GetByID(ctx, carID)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return localized(c, http.StatusNotFound, "car_not_found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}
	if car.OwnerID != uid {
		return localized(c, http.StatusForbidden, "car_not_yours")
	}
	items, err := h.Invitations.ListByCar(ctx, carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetByToken handles GET /v1/invitations/:token, the deep link target from
// invitation e-mails.  No authentication: the token itself is the secret.
func (h *InvitationHandler) GetByToken(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Invitations.GetByToken(ctx, c.Param("token"))
	if err != nil {
		if err == repository.ErrInvitationNotFound {
			return localized(c, http.StatusNotFound, "not_found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitation failed"})
	}
	return c.JSON(http.StatusOK, inv)
}

// Respond handles PATCH /v1/invitations/:token.  Accepting links the
// invited user (when registered) to the car as a passenger.  A second
// respond on the same token fails with not_pending instead of silently
// re-applying.
func (h *InvitationHandler) Respond(c echo.Context) error {
	token := c.Param("token")
	var req respondReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Invitations.GetByToken(ctx, token)
	if err != nil {
		if err == repository.ErrInvitationNotFound {
			return localized(c, http.StatusNotFound, "not_found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitation failed"})
	}

	list := reconcileList([]model.Invitation{*inv})
	next, _, err := reconcile.RequestRespond(list, token, req.Accept)
	if err != nil {
		return validationError(c, err)
	}
	resolved := next[0]

	if resolved.Status == reconcile.StatusAccepted {
		u, uerr := h.Users.GetByEmail(ctx, inv.InvitedEmail)
		switch {
		case uerr == nil:
			// Status flip and passenger link happen in one transaction; a
			// user already riding elsewhere blocks the accept entirely.
			if err := h.Invitations.AcceptByToken(ctx, token, u.ID); err != nil {
				if err == repository.ErrInvitationNotFound {
					// Lost a race with another respond.
					return localized(c, http.StatusBadRequest, "not_pending")
				}
				if err == repository.ErrConflict {
					return localized(c, http.StatusConflict, "already_in_car")
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
			}
		case uerr == sql.ErrNoRows:
			// No account for the address yet; record the answer, the link
			// appears once they register and show up via the dashboard.
			if err := h.Invitations.UpdateStatusByToken(ctx, token, string(resolved.Status)); err != nil {
				if err == repository.ErrInvitationNotFound {
					return localized(c, http.StatusBadRequest, "not_pending")
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update invitation failed"})
			}
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
		}
	} else {
		if err := h.Invitations.UpdateStatusByToken(ctx, token, string(resolved.Status)); err != nil {
			if err == repository.ErrInvitationNotFound {
				// Lost a race with another respond.
				return localized(c, http.StatusBadRequest, "not_pending")
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update invitation failed"})
		}
	}

	updated, err := h.Invitations.GetByToken(ctx, token)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitation failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Cancel handles DELETE /v1/invitations/:token for the car owner.  The
// entry is gone for good; clients recover only by re-fetching the list.
func (h *InvitationHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Invitations.GetByToken(ctx, token)
	if err != nil {
		if err == repository.ErrInvitationNotFound {
			return localized(c, http.StatusNotFound, "not_found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitation failed"})
	}
	car, err := h.Cars.GetByID(ctx, inv.CarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}
	if car.OwnerID != uid {
		return localized(c, http.StatusForbidden, "not_car_owner")
	}

	siblings, err := h.Invitations.ListByCar(ctx, inv.CarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitations failed"})
	}
	if _, err := reconcile.RequestCancel(reconcileList(siblings), token); err != nil {
		return validationError(c, err)
	}
	if err := h.Invitations.DeleteByToken(ctx, token); err != nil {
		if err == repository.ErrInvitationNotFound {
			return localized(c, http.StatusNotFound, "not_found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete invitation failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
