// This file defines handlers for the public browsing API. These routes
// let unauthenticated users browse movies, rooms, showtimes and the
// concession catalogue before deciding to book.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/repository"
)

// PublicHandler aggregates the repositories needed for unauthenticated
// browsing.
type PublicHandler struct {
	MovieRepo    *repository.MovieRepo
	RoomRepo     *repository.RoomRepo
	ShowtimeRepo *repository.ShowtimeRepo
	SeatRepo     *repository.SeatRepo
	FoodRepo     *repository.FoodRepo
}

// GetMovies handles GET /v1/movies. The optional ?status=showing or
// ?status=coming_soon query narrows the listing.
func (h *PublicHandler) GetMovies(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		movies []model.Movie
		err    error
	)
	if status := c.QueryParam("status"); status != "" {
		if status != model.MovieStatusShowing && status != model.MovieStatusComingSoon {
			return badRequest(c, "unknown status")
		}
		movies, err = h.MovieRepo.ListByStatus(ctx, status)
	} else {
		movies, err = h.MovieRepo.List(ctx)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// GetMovie handles GET /v1/movies/:id.
func (h *PublicHandler) GetMovie(c echo.Context) error {
	m, err := h.MovieRepo.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// GetMovieShowtimes handles GET /v1/movies/:id/showtimes and returns
// every scheduled screening of the movie across rooms.
func (h *PublicHandler) GetMovieShowtimes(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.MovieRepo.Get(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	showtimes, err := h.ShowtimeRepo.ListByMovie(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": showtimes})
}

// GetRooms handles GET /v1/rooms.
func (h *PublicHandler) GetRooms(c echo.Context) error {
	rooms, err := h.RoomRepo.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// GetRoomSeats handles GET /v1/rooms/:id/seats and returns the seat grid
// so guests can preview availability before logging in. Seats come back
// grouped into display rows.
func (h *PublicHandler) GetRoomSeats(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.RoomRepo.Get(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	seats, err := h.SeatRepo.ListByRoom(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rows": repository.GridRows(seats)})
}

// GetShowtime handles GET /v1/showtimes/:id.
func (h *PublicHandler) GetShowtime(c echo.Context) error {
	st, err := h.ShowtimeRepo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// GetFoods handles GET /v1/foods and lists the concession catalogue.
func (h *PublicHandler) GetFoods(c echo.Context) error {
	foods, err := h.FoodRepo.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": foods})
}
