package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/repository"
)

// TicketHandler exposes the ticket ledger to its owners and to admins.
type TicketHandler struct {
	TicketRepo *repository.TicketRepo
}

// MyTickets handles GET /v1/my-tickets and lists the caller's purchases.
func (h *TicketHandler) MyTickets(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.TicketRepo.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tickets})
}

// GetTicket handles GET /v1/tickets/:id. Customers only see their own
// tickets; admins may fetch any.
func (h *TicketHandler) GetTicket(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	t, err := h.TicketRepo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if t.UserID != user.ID && !user.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, t)
}

// AllTickets handles GET /v1/admin/tickets for reporting.
func (h *TicketHandler) AllTickets(c echo.Context) error {
	tickets, err := h.TicketRepo.All(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tickets})
}
