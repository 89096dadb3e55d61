package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking/internal/model"
)

var boss = model.User{ID: "boss", Role: model.RoleAdmin}

func TestAdminCreateRoomProvisionsSeats(t *testing.T) {
	v := newEnv(t)

	rec := v.call(t, v.admin.CreateRoom, boss, http.MethodPost,
		`{"name":"IMAX A","capacity":18,"screenType":"IMAX"}`, nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var room model.ScreeningRoom
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))
	assert.NotEmpty(t, room.ID)

	seats, err := v.seats.ListByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 18)
}

func TestAdminGrowRoomCapacity(t *testing.T) {
	v := newEnv(t)

	rec := v.call(t, v.admin.UpdateRoom, boss, http.MethodPut,
		`{"capacity":15}`, []string{"id"}, []string{"room-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	seats, err := v.seats.ListByRoom(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Len(t, seats, 15)
}

func TestAdminShrinkRoomRejected(t *testing.T) {
	v := newEnv(t)

	rec := v.call(t, v.admin.UpdateRoom, boss, http.MethodPut,
		`{"capacity":4}`, []string{"id"}, []string{"room-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	seats, err := v.seats.ListByRoom(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Len(t, seats, 12, "seat count unchanged after rejected shrink")
}

func TestAdminDeleteRoomRemovesSeats(t *testing.T) {
	v := newEnv(t)

	rec := v.call(t, v.admin.DeleteRoom, boss, http.MethodDelete, "", []string{"id"}, []string{"room-1"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	seats, err := v.seats.ListByRoom(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Empty(t, seats)
}

func TestAdminCreateShowtimeConflict(t *testing.T) {
	v := newEnv(t)

	// st-1 occupies [19:00, 20:30) on 5/3/2026
	rec := v.call(t, v.admin.CreateShowtime, boss, http.MethodPost,
		`{"screeningRoomId":"room-1","movieId":"movie-1","date":"5/3/2026","startTime":"20:00","ticketPrice":90000}`,
		nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// back to back is fine
	rec = v.call(t, v.admin.CreateShowtime, boss, http.MethodPost,
		`{"screeningRoomId":"room-1","movieId":"movie-1","date":"5/3/2026","startTime":"20:30","ticketPrice":90000}`,
		nil, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"endTime":"22:00"`)
}

func TestAdminCreateShowtimeValidation(t *testing.T) {
	v := newEnv(t)

	rec := v.call(t, v.admin.CreateShowtime, boss, http.MethodPost,
		`{"screeningRoomId":"room-1","movieId":"movie-1","date":"5/3/2026","startTime":"25:00","ticketPrice":90000}`,
		nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = v.call(t, v.admin.CreateShowtime, boss, http.MethodPost,
		`{"screeningRoomId":"room-1","movieId":"missing","date":"5/3/2026","startTime":"10:00","ticketPrice":90000}`,
		nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminFoodLifecycle(t *testing.T) {
	v := newEnv(t)

	rec := v.call(t, v.admin.CreateFood, boss, http.MethodPost,
		`{"name":"Cola","price":15000,"quantity":10}`, nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var food model.Food
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &food))

	rec = v.call(t, v.admin.RestockFood, boss, http.MethodPost,
		`{"quantity":5}`, []string{"id"}, []string{food.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":15`)

	rec = v.call(t, v.admin.UpdateFood, boss, http.MethodPut,
		`{"price":18000}`, []string{"id"}, []string{food.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":18000`)
	assert.Contains(t, rec.Body.String(), `"quantity":15`, "update never touches stock")

	rec = v.call(t, v.admin.DeleteFood, boss, http.MethodDelete, "", []string{"id"}, []string{food.ID})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPublicBrowse(t *testing.T) {
	v := newEnv(t)

	rec := v.call(t, v.public.GetMovies, model.User{}, http.MethodGet, "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Arrival")

	rec = v.call(t, v.public.GetMovieShowtimes, model.User{}, http.MethodGet, "", []string{"id"}, []string{"movie-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "st-1")

	rec = v.call(t, v.public.GetFoods, model.User{}, http.MethodGet, "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Popcorn")

	rec = v.call(t, v.public.GetMovie, model.User{}, http.MethodGet, "", []string{"id"}, []string{"missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicRoomSeatsGrid(t *testing.T) {
	v := newEnv(t)

	rec := v.call(t, v.public.GetRoomSeats, model.User{}, http.MethodGet, "", []string{"id"}, []string{"room-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Rows [][]model.Seat `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Rows, 2, "12 seats split into rows of nine")
	assert.Len(t, payload.Rows[0], 9)
	assert.Len(t, payload.Rows[1], 3)
}
