package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/handler"
	"github.com/sitzy/sitzy/internal/middleware"
)

// RegisterCars registers car and seat endpoints under /v1.  All routes
// require a valid JWT; ownership and passenger checks happen in the
// handlers.  cacheGET, when non-nil, is applied to user-independent GET
// routes only, so per-user responses never share a cache entry.
func RegisterCars(e *echo.Echo, c *handler.CarHandler, s *handler.SeatHandler, jwtSecret string, cacheGET echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// ---- Cars ----
	g.POST("/cars", c.CreateCar)
	g.GET("/cars/me", c.GetMyCar)
	g.PUT("/cars/:id", c.UpdateCar)
	g.PATCH("/cars/:id", c.UpdateCar) // allow partial/semantic updates via PATCH as well
	g.DELETE("/cars/:id", c.DeleteCar)

	// The resolved seating template is the same for every caller, so it can
	// go through the response cache.
	if cacheGET != nil {
		g.GET("/cars/:id/layout", c.GetCarLayout, cacheGET)
	} else {
		g.GET("/cars/:id/layout", c.GetCarLayout)
	}

	// ---- Seats ----
	// Passenger-scoped: the car is implied by the caller's passenger link.
	g.GET("/seats", s.ListSeats)
	g.POST("/seats/choose", s.ChooseSeat)
	g.PATCH("/seats/change", s.ChooseSeat) // same transition; kept as an alias for older clients
	g.DELETE("/seats", s.FreeSeat)
}
