package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/handler"
	"github.com/sitzy/sitzy/internal/middleware"
)

// RegisterInvitations registers the invitation lifecycle and the dashboard.
// Responding by token is deliberately unauthenticated: the invited person
// may not have an account yet, and the token in the e-mail link is the only
// credential needed to answer.
func RegisterInvitations(e *echo.Echo, i *handler.InvitationHandler, d *handler.DashboardHandler, jwtSecret string) {
	// Token-addressed endpoints reachable straight from the e-mail link.
	e.GET("/v1/invitations/:token", i.GetByToken)
	e.PATCH("/v1/invitations/:token", i.Respond)

	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/cars/:id/invitations", i.CreateInvitation)
	g.GET("/cars/:id/invitations", i.ListInvitations)
	g.DELETE("/invitations/:token", i.Cancel)

	g.GET("/dashboard", d.Dashboard)
	g.DELETE("/dashboard/cars/:id", d.LeaveCar)
}
