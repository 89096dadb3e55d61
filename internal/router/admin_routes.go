package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/handler"
	"github.com/cinetick/booking/internal/middleware"
	"github.com/cinetick/booking/internal/model"
)

// RegisterAdmin wires inventory management under /v1/admin. Every route
// requires a valid token carrying the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, t *handler.TicketHandler, jwtSecret string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.POST("/rooms", a.CreateRoom)
	g.PUT("/rooms/:id", a.UpdateRoom)
	g.DELETE("/rooms/:id", a.DeleteRoom)
	g.GET("/rooms/:id/showtimes", a.ListRoomShowtimes)

	g.POST("/movies", a.CreateMovie)
	g.PUT("/movies/:id", a.UpdateMovie)
	g.DELETE("/movies/:id", a.DeleteMovie)

	g.POST("/showtimes", a.CreateShowtime)
	g.DELETE("/showtimes/:id", a.DeleteShowtime)

	g.POST("/foods", a.CreateFood)
	g.PUT("/foods/:id", a.UpdateFood)
	g.POST("/foods/:id/restock", a.RestockFood)
	g.DELETE("/foods/:id", a.DeleteFood)

	g.GET("/tickets", t.AllTickets)
}
