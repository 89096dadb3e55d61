package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/repository"
)

type showtimeRequest struct {
	ScreeningRoomID string `json:"screeningRoomId"`
	MovieID         string `json:"movieId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	TicketPrice     int64  `json:"ticketPrice"`
}

// CreateShowtime handles POST /v1/admin/showtimes. The end time is
// derived from the movie duration plus the cleaning buffer, and the slot
// is rejected with 409 when it overlaps an existing screening in the
// same room on the same date.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var req showtimeRequest
	if err := c.Bind(&req); err != nil ||
		req.ScreeningRoomID == "" || req.MovieID == "" ||
		req.Date == "" || req.StartTime == "" || req.TicketPrice <= 0 {
		return badRequest(c, "screeningRoomId, movieId, date, startTime and positive ticketPrice are required")
	}
	ctx := c.Request().Context()
	if _, err := h.RoomRepo.Get(ctx, req.ScreeningRoomID); err != nil {
		return fail(c, err)
	}
	movie, err := h.MovieRepo.Get(ctx, req.MovieID)
	if err != nil {
		return fail(c, err)
	}
	if _, err := repository.ParseClock(req.StartTime); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repository.ValidateDate(req.Date); err != nil {
		return badRequest(c, err.Error())
	}
	st := &model.Showtime{
		ID:              uuid.NewString(),
		ScreeningRoomID: req.ScreeningRoomID,
		MovieID:         movie.ID,
		MovieName:       movie.Name,
		Date:            req.Date,
		StartTime:       req.StartTime,
		TicketPrice:     req.TicketPrice,
	}
	if err := h.ShowtimeRepo.Create(ctx, st, movie.Duration); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, st)
}

// ListRoomShowtimes handles GET /v1/admin/rooms/:id/showtimes so admins
// can inspect a room's schedule when planning slots.
func (h *AdminHandler) ListRoomShowtimes(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.RoomRepo.Get(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	showtimes, err := h.ShowtimeRepo.ListByRoom(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": showtimes})
}

// DeleteShowtime handles DELETE /v1/admin/showtimes/:id. Issued tickets
// keep referencing the deleted showtime by id; the ledger is immutable.
func (h *AdminHandler) DeleteShowtime(c echo.Context) error {
	if err := h.ShowtimeRepo.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
