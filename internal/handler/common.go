// Package handler exposes HTTP handlers for both authenticated and
// public endpoints. Handlers translate domain sentinel errors into HTTP
// status codes and never leak store internals to clients.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/booking"
	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/repository"
)

// currentUser extracts the authenticated identity placed into the
// context by the JWT middleware.
func currentUser(c echo.Context) (model.User, bool) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" {
		return model.User{}, false
	}
	return model.User{ID: id, Role: role}, true
}

// fail writes the JSON error response for a domain error. Sentinels map
// to specific statuses; anything unrecognized becomes a 500 with a
// generic message so internals stay hidden.
func fail(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, repository.ErrSeatNotFound),
		errors.Is(err, repository.ErrShowtimeNotFound),
		errors.Is(err, repository.ErrFoodNotFound),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrMovieNotFound),
		errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, booking.ErrSessionNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, repository.ErrSeatReserved),
		errors.Is(err, repository.ErrSeatConflict),
		errors.Is(err, repository.ErrScheduleConflict),
		errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrStockConflict),
		errors.Is(err, repository.ErrCapacityShrink):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, booking.ErrNoSeatsSelected),
		errors.Is(err, booking.ErrSeatNotInSession):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, booking.ErrAdminPurchase):
		code, msg = http.StatusForbidden, err.Error()
	}
	return c.JSON(code, echo.Map{"error": msg})
}

// badRequest writes a 400 with the given message.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
