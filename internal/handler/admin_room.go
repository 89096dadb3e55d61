package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/repository"
)

// AdminHandler bundles the repositories admins use to manage rooms,
// movies, showtimes and concession stock. All routes behind it require
// the admin role.
type AdminHandler struct {
	RoomRepo     *repository.RoomRepo
	SeatRepo     *repository.SeatRepo
	MovieRepo    *repository.MovieRepo
	ShowtimeRepo *repository.ShowtimeRepo
	FoodRepo     *repository.FoodRepo
}

// NewAdminHandler constructs an AdminHandler; all dependencies must be
// non-nil.
func NewAdminHandler(
	roomRepo *repository.RoomRepo,
	seatRepo *repository.SeatRepo,
	movieRepo *repository.MovieRepo,
	showtimeRepo *repository.ShowtimeRepo,
	foodRepo *repository.FoodRepo,
) *AdminHandler {
	if roomRepo == nil || seatRepo == nil || movieRepo == nil || showtimeRepo == nil || foodRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		RoomRepo:     roomRepo,
		SeatRepo:     seatRepo,
		MovieRepo:    movieRepo,
		ShowtimeRepo: showtimeRepo,
		FoodRepo:     foodRepo,
	}
}

type roomRequest struct {
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	ScreenType string `json:"screenType"`
	Location   string `json:"location"`
}

// CreateRoom handles POST /v1/admin/rooms. The room record and its full
// seat complement are created together; provisioning is idempotent, so a
// failure partway can be repaired by re-issuing the same request.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var req roomRequest
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Capacity <= 0 {
		return badRequest(c, "name and positive capacity are required")
	}
	ctx := c.Request().Context()
	room := &model.ScreeningRoom{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Capacity:   req.Capacity,
		ScreenType: req.ScreenType,
		Location:   req.Location,
	}
	if err := h.RoomRepo.Create(ctx, room); err != nil {
		return fail(c, err)
	}
	if err := h.SeatRepo.Provision(ctx, room.ID, room.Capacity); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /v1/admin/rooms/:id. Capacity may only grow;
// the missing seats are provisioned before the room record changes, and
// a shrink attempt is rejected with 409.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	var req roomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.RoomRepo.Get(ctx, id); err != nil {
		return fail(c, err)
	}
	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.ScreenType != "" {
		fields["screenType"] = req.ScreenType
	}
	if req.Location != "" {
		fields["location"] = req.Location
	}
	if req.Capacity > 0 {
		if err := h.SeatRepo.Provision(ctx, id, req.Capacity); err != nil {
			return fail(c, err)
		}
		fields["capacity"] = req.Capacity
	}
	if len(fields) > 0 {
		if err := h.RoomRepo.Update(ctx, id, fields); err != nil {
			return fail(c, err)
		}
	}
	room, err := h.RoomRepo.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /v1/admin/rooms/:id, removing the room and
// all its seats.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.RoomRepo.Get(ctx, id); err != nil {
		return fail(c, err)
	}
	if err := h.SeatRepo.DeleteByRoom(ctx, id); err != nil {
		return fail(c, err)
	}
	if err := h.RoomRepo.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
