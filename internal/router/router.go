package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/handler"
	"github.com/sitzy/sitzy/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers or monitoring systems to verify the service
	// is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and the two refresh flavours.  Each handler generates or exchanges
	// tokens on its own.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a JSON body with a `refresh_token` and invalidates
	// that token; it does not require JWT authentication.
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
