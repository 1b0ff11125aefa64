package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/aerolift/dispatch/internal/config"
	"github.com/aerolift/dispatch/internal/handler"
	"github.com/aerolift/dispatch/internal/middleware"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth      *handler.AuthHandler
	Jobs      *handler.JobHandler
	Drivers   *handler.DriverHandler
	Locations *handler.LocationHandler
	Flights   *handler.FlightHandler
}

// Register wires the full API surface onto the Echo instance. All
// application routes live under /api; the health check and Prometheus
// scrape endpoint sit at the top level.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rl config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/health", handler.Health)

	// Login and registration are throttled per client IP.
	auth := api.Group("/auth")
	auth.Use(middleware.NewTokenBucket(rl, rdb))
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	api.GET("/jobs", h.Jobs.List)
	api.POST("/jobs", h.Jobs.Create)
	api.GET("/jobs/:id", h.Jobs.Get)
	api.PUT("/jobs/:id", h.Jobs.Update)
	api.DELETE("/jobs/:id", h.Jobs.Delete)

	// Pickup and dropoff act on behalf of the authenticated driver, so
	// only these two job routes require a token.
	jwt := middleware.JWTAuth(jwtSecret)
	api.POST("/jobs/:id/pickup", h.Jobs.MarkPickup, jwt)
	api.POST("/jobs/:id/dropoff", h.Jobs.MarkDropoff, jwt)

	api.GET("/drivers", h.Drivers.List)
	api.POST("/drivers", h.Drivers.Create)
	api.PUT("/drivers/:id", h.Drivers.Update)
	api.DELETE("/drivers/:id", h.Drivers.Delete)
	api.GET("/drivers/:id/jobs", h.Drivers.ListJobs)

	api.GET("/locations", h.Locations.List)
	api.POST("/locations", h.Locations.Create)

	api.GET("/flights/status/:flightNumber", h.Flights.Status)
}
