package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/booking"
	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/repository"
)

// BookingHandler drives the interactive reservation workflow over the
// session manager and commit orchestrator. All routes require an
// authenticated customer; the commit itself additionally rejects admin
// accounts.
type BookingHandler struct {
	Sessions     *booking.Manager
	Selector     *booking.ConcessionSelector
	Orchestrator *booking.Orchestrator
	SeatRepo     *repository.SeatRepo
	ShowtimeRepo *repository.ShowtimeRepo
	MovieRepo    *repository.MovieRepo
	RoomRepo     *repository.RoomRepo
}

// NewBookingHandler constructs a BookingHandler; all dependencies must be
// non-nil.
func NewBookingHandler(
	sessions *booking.Manager,
	selector *booking.ConcessionSelector,
	orchestrator *booking.Orchestrator,
	seatRepo *repository.SeatRepo,
	showtimeRepo *repository.ShowtimeRepo,
	movieRepo *repository.MovieRepo,
	roomRepo *repository.RoomRepo,
) *BookingHandler {
	if sessions == nil || selector == nil || orchestrator == nil ||
		seatRepo == nil || showtimeRepo == nil || movieRepo == nil || roomRepo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{
		Sessions:     sessions,
		Selector:     selector,
		Orchestrator: orchestrator,
		SeatRepo:     seatRepo,
		ShowtimeRepo: showtimeRepo,
		MovieRepo:    movieRepo,
		RoomRepo:     roomRepo,
	}
}

// sessionView is the wire shape of a booking session.
type sessionView struct {
	ID         string         `json:"id"`
	State      booking.State  `json:"state"`
	MovieID    string         `json:"movieId"`
	RoomID     string         `json:"roomId,omitempty"`
	Date       string         `json:"date,omitempty"`
	ShowtimeID string         `json:"showtimeId,omitempty"`
	SeatIDs    []string       `json:"seatIds"`
	Food       map[string]int `json:"food"`
	ExpiresAt  string         `json:"expiresAt"`
}

func viewOf(s booking.Session) sessionView {
	return sessionView{
		ID:         s.ID,
		State:      s.State,
		MovieID:    s.MovieID,
		RoomID:     s.RoomID,
		Date:       s.Date,
		ShowtimeID: s.ShowtimeID,
		SeatIDs:    s.SeatIDs,
		Food:       s.Food,
		ExpiresAt:  s.ExpiresAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Start handles POST /v1/booking. The body names the movie to book; the
// response carries the new session and the rooms currently screening it.
func (h *BookingHandler) Start(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		MovieID string `json:"movieId"`
	}
	if err := c.Bind(&req); err != nil || req.MovieID == "" {
		return badRequest(c, "movieId is required")
	}
	ctx := c.Request().Context()
	if _, err := h.MovieRepo.Get(ctx, req.MovieID); err != nil {
		return fail(c, err)
	}
	s, err := h.Sessions.Start(ctx, user.ID, req.MovieID)
	if err != nil {
		return fail(c, err)
	}
	rooms, err := h.roomsForMovie(c, req.MovieID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"session": viewOf(s), "rooms": rooms})
}

// Get handles GET /v1/booking/:id and returns the current session state.
func (h *BookingHandler) Get(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.Get(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s)})
}

// ChooseRoom handles PUT /v1/booking/:id/room. Picking a room resets any
// downstream date, showtime, seat and food choices. The response lists
// the dates the movie plays in that room.
func (h *BookingHandler) ChooseRoom(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		RoomID string `json:"roomId"`
	}
	if err := c.Bind(&req); err != nil || req.RoomID == "" {
		return badRequest(c, "roomId is required")
	}
	ctx := c.Request().Context()
	if _, err := h.RoomRepo.Get(ctx, req.RoomID); err != nil {
		return fail(c, err)
	}
	s, err := h.Sessions.ChooseRoom(ctx, c.Param("id"), user.ID, req.RoomID)
	if err != nil {
		return fail(c, err)
	}
	showtimes, err := h.ShowtimeRepo.ListByMovieAndRoom(ctx, s.MovieID, s.RoomID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s), "dates": uniqueDates(showtimes)})
}

// ChooseDate handles PUT /v1/booking/:id/date and returns the showtimes
// of that day.
func (h *BookingHandler) ChooseDate(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Date string `json:"date"`
	}
	if err := c.Bind(&req); err != nil || req.Date == "" {
		return badRequest(c, "date is required")
	}
	if err := repository.ValidateDate(req.Date); err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	s, err := h.Sessions.ChooseDate(ctx, c.Param("id"), user.ID, req.Date)
	if err != nil {
		return fail(c, err)
	}
	showtimes, err := h.ShowtimeRepo.ListByMovieAndRoom(ctx, s.MovieID, s.RoomID)
	if err != nil {
		return fail(c, err)
	}
	times := make([]model.Showtime, 0, len(showtimes))
	for _, st := range showtimes {
		if st.Date == s.Date {
			times = append(times, st)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s), "showtimes": times})
}

// ChooseTime handles PUT /v1/booking/:id/time. The showtime must match
// the session's movie, room and date; on success the response carries the
// seat grid.
func (h *BookingHandler) ChooseTime(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		ShowtimeID string `json:"showtimeId"`
	}
	if err := c.Bind(&req); err != nil || req.ShowtimeID == "" {
		return badRequest(c, "showtimeId is required")
	}
	ctx := c.Request().Context()
	s, err := h.Sessions.ChooseShowtime(ctx, c.Param("id"), user.ID, req.ShowtimeID)
	if err != nil {
		return fail(c, err)
	}
	grid, err := h.seatGrid(c, s.RoomID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s), "seats": grid})
}

// Seats handles GET /v1/booking/:id/seats and returns the current grid.
func (h *BookingHandler) Seats(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.Get(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return fail(c, err)
	}
	if s.RoomID == "" {
		return fail(c, booking.ErrInvalidState)
	}
	grid, err := h.seatGrid(c, s.RoomID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s), "seats": grid})
}

// SelectSeat handles POST /v1/booking/:id/seats/:seatID.
func (h *BookingHandler) SelectSeat(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.SelectSeat(c.Request().Context(), c.Param("id"), user.ID, c.Param("seatID"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s)})
}

// DeselectSeat handles DELETE /v1/booking/:id/seats/:seatID.
func (h *BookingHandler) DeselectSeat(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.DeselectSeat(c.Request().Context(), c.Param("id"), user.ID, c.Param("seatID"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s)})
}

// SetFood handles PUT /v1/booking/:id/food. The requested quantity is
// clamped to available stock; the clamped value is echoed back so the
// client can show what was actually kept.
func (h *BookingHandler) SetFood(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		FoodID   string `json:"foodId"`
		Quantity int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.FoodID == "" {
		return badRequest(c, "foodId is required")
	}
	ctx := c.Request().Context()
	qty, err := h.Selector.Clamp(ctx, req.FoodID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	s, err := h.Sessions.SetFood(ctx, c.Param("id"), user.ID, req.FoodID, qty)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s), "quantity": qty})
}

// Review handles GET /v1/booking/:id/review and returns the priced
// summary: seats, food lines and the total broken down.
func (h *BookingHandler) Review(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	if _, err := h.Sessions.EnterReview(ctx, c.Param("id"), user.ID); err != nil {
		return fail(c, err)
	}
	review, err := h.Orchestrator.BuildReview(ctx, c.Param("id"), user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

// Commit handles POST /v1/booking/:id/commit and finalizes the booking
// into a ticket.
func (h *BookingHandler) Commit(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticket, err := h.Orchestrator.Commit(c.Request().Context(), c.Param("id"), user)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ticket": ticket})
}

// Cancel handles DELETE /v1/booking/:id, releasing all selected seats.
func (h *BookingHandler) Cancel(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Sessions.Cancel(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// roomsForMovie resolves the distinct rooms with scheduled showtimes of
// a movie.
func (h *BookingHandler) roomsForMovie(c echo.Context, movieID string) ([]model.ScreeningRoom, error) {
	ctx := c.Request().Context()
	showtimes, err := h.ShowtimeRepo.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	rooms := make([]model.ScreeningRoom, 0)
	for _, st := range showtimes {
		if seen[st.ScreeningRoomID] {
			continue
		}
		seen[st.ScreeningRoomID] = true
		room, err := h.RoomRepo.Get(ctx, st.ScreeningRoomID)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, nil
}

// seatGrid loads a room's seats chunked into display rows.
func (h *BookingHandler) seatGrid(c echo.Context, roomID string) ([][]model.Seat, error) {
	seats, err := h.SeatRepo.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return nil, err
	}
	return repository.GridRows(seats), nil
}

// uniqueDates collects the distinct dates of a showtime list in first
// seen order.
func uniqueDates(showtimes []model.Showtime) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, st := range showtimes {
		if !seen[st.Date] {
			seen[st.Date] = true
			dates = append(dates, st.Date)
		}
	}
	return dates
}
