package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                             // Echo web framework used for routing
	"github.com/prometheus/client_golang/prometheus/promhttp" // promhttp serves the metrics endpoint
	"github.com/redis/go-redis/v9"                            // redis backs the cache and rate limit middleware

	"github.com/SHOB1KK/ResNet/internal/config"     // cache and rate limit configuration
	"github.com/SHOB1KK/ResNet/internal/handler"    // handlers implementing the API surface
	"github.com/SHOB1KK/ResNet/internal/middleware" // JWT, role, cache and rate limit middleware
)

// RegisterRoutes registers the operational endpoints that carry no
// authentication: the health check used by load balancers and the
// Prometheus metrics endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterPublic registers the guest-facing endpoints.  Browse and
// availability reads are wrapped in the Redis response cache; the
// booking writes are wrapped in the token bucket rate limiter so a
// single caller cannot hammer the reservation engine.  Both wrappers
// degrade to pass-through when rdb is nil.
func RegisterPublic(e *echo.Echo, r *handler.RestaurantHandler, t *handler.TableHandler, b *handler.BookingHandler, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Browse and availability reads.  Short cache TTLs keep stale
	// availability windows tolerable.
	e.GET("/v1/restaurants", r.ListRestaurants, cache)
	e.GET("/v1/restaurants/:id", r.GetRestaurant, cache)
	e.GET("/v1/restaurants/:id/tables", t.ListTables, cache)
	e.GET("/v1/restaurants/:id/tables/available", t.AvailableTables, cache)
	e.GET("/v1/tables/:id", t.GetTable, cache)
	e.GET("/v1/tables/:id/availability", t.TableAvailability, cache)

	// Guest booking lifecycle.  Creation is open; the self-service
	// endpoints authenticate with the booking code plus phone pair.
	e.POST("/v1/bookings", b.CreateBooking, limit)
	e.GET("/v1/bookings/code/:code", b.GetBookingByCode, limit)
	e.PUT("/v1/bookings/code/:code", b.UpdateBookingByCode, limit)
	e.POST("/v1/bookings/code/:code/cancel", b.CancelBookingByCode, limit)
}

// RegisterStaff registers the staff endpoints under /v1.  All routes
// require a valid JWT carrying the ADMIN or MANAGER role.
func RegisterStaff(e *echo.Echo, r *handler.RestaurantHandler, t *handler.TableHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER"),
	)

	// ---- Restaurants ----
	g.POST("/restaurants", r.CreateRestaurant)
	g.PUT("/restaurants/:id", r.UpdateRestaurant)
	g.PATCH("/restaurants/:id", r.UpdateRestaurant) // allow partial-style updates via PATCH as well
	g.DELETE("/restaurants/:id", r.DeleteRestaurant)

	// ---- Tables ----
	g.POST("/restaurants/:id/tables", t.CreateTable)
	g.PUT("/tables/:id", t.UpdateTable)
	g.PATCH("/tables/:id", t.UpdateTable)
	g.DELETE("/tables/:id", t.DeleteTable)

	// ---- Bookings ----
	g.GET("/bookings/:id", b.GetBooking)
	g.GET("/tables/:id/bookings", b.ListBookingsByTable)
	g.PUT("/bookings/:id", b.UpdateBooking)
	g.PATCH("/bookings/:id", b.UpdateBooking)
	g.POST("/bookings/:id/cancel", b.CancelBooking)
	g.DELETE("/bookings/:id", b.DeleteBooking)
}
