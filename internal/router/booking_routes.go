package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinetick/booking/internal/config"
	"github.com/cinetick/booking/internal/handler"
	"github.com/cinetick/booking/internal/middleware"
	"github.com/cinetick/booking/internal/model"
)

// RegisterBooking wires the session workflow and ticket endpoints under
// /v1. Every route requires a valid access token; admins may browse
// their tickets here too, the purchase block happens at commit. The
// token bucket limiter caps how fast one client can hammer the seat map.
func RegisterBooking(
	e *echo.Echo,
	b *handler.BookingHandler,
	t *handler.TicketHandler,
	jwtSecret string,
	rlCfg config.RateLimitConfig,
	rdb *redis.Client,
) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
		middleware.NewTokenBucket(rlCfg, rdb),
	)

	g.POST("/booking", b.Start)
	g.GET("/booking/:id", b.Get)
	g.PUT("/booking/:id/room", b.ChooseRoom)
	g.PUT("/booking/:id/date", b.ChooseDate)
	g.PUT("/booking/:id/time", b.ChooseTime)
	g.GET("/booking/:id/seats", b.Seats)
	g.POST("/booking/:id/seats/:seatID", b.SelectSeat)
	g.DELETE("/booking/:id/seats/:seatID", b.DeselectSeat)
	g.PUT("/booking/:id/food", b.SetFood)
	g.GET("/booking/:id/review", b.Review)
	g.POST("/booking/:id/commit", b.Commit)
	g.DELETE("/booking/:id", b.Cancel)

	g.GET("/my-tickets", t.MyTickets)
	g.GET("/tickets/:id", t.GetTicket)
}
