// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/cinetick/booking/internal/config"
	"github.com/cinetick/booking/internal/handler"
	"github.com/cinetick/booking/internal/middleware"
)

// RegisterRoutes registers the unauthenticated service endpoints: the
// health check for load balancers and the Prometheus metrics scrape.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterPublic registers the unauthenticated browse endpoints. GET
// responses are cached in Redis when a client is available; the
// catalogue changes rarely enough that a short TTL is safe.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("/movies", p.GetMovies)
	g.GET("/movies/:id", p.GetMovie)
	g.GET("/movies/:id/showtimes", p.GetMovieShowtimes)
	g.GET("/rooms", p.GetRooms)
	g.GET("/rooms/:id/seats", p.GetRoomSeats)
	g.GET("/showtimes/:id", p.GetShowtime)
	g.GET("/foods", p.GetFoods)
}
