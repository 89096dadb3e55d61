package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/store"
)

func newShowtime(id, room, date, start string) *model.Showtime {
	return &model.Showtime{
		ID:              id,
		ScreeningRoomID: room,
		MovieID:         "movie-1",
		MovieName:       "Arrival",
		Date:            date,
		StartTime:       start,
		TicketPrice:     90000,
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"9:05", 545, true},
		{"19:00", 1140, true},
		{"0:00", 0, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"9:5", 0, false},  // minutes must be zero-padded
		{"9:60", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.minutes, got, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "9:05", FormatClock(545))
	assert.Equal(t, "0:30", FormatClock(30))
	// wraps past midnight
	assert.Equal(t, "1:00", FormatClock(25*60))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("5/3/2026"))
	assert.NoError(t, ValidateDate("31/12/2026"))
	assert.Error(t, ValidateDate("2026-03-05"))
	assert.Error(t, ValidateDate("32/1/2026"))
	assert.Error(t, ValidateDate("1/13/2026"))
	assert.Error(t, ValidateDate(""))
}

func TestComputeEndTime(t *testing.T) {
	// 60 minute feature plus the cleaning buffer
	end, err := ComputeEndTime("19:00", 60)
	require.NoError(t, err)
	assert.Equal(t, "20:30", end)

	// late show wraps past midnight
	end, err = ComputeEndTime("23:30", 120)
	require.NoError(t, err)
	assert.Equal(t, "2:00", end)

	_, err = ComputeEndTime("bogus", 60)
	assert.Error(t, err)
}

func TestShowtimeCreateDerivesEnd(t *testing.T) {
	ctx := context.Background()
	repo := NewShowtimeRepo(store.NewMemory())

	st := newShowtime("st-1", "room-1", "5/3/2026", "19:00")
	require.NoError(t, repo.Create(ctx, st, 60))
	assert.Equal(t, "20:30", st.EndTime)

	got, err := repo.GetByID(ctx, "st-1")
	require.NoError(t, err)
	assert.Equal(t, "20:30", got.EndTime)
}

func TestShowtimeOverlapRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewShowtimeRepo(store.NewMemory())

	// occupies [19:00, 20:30)
	require.NoError(t, repo.Create(ctx, newShowtime("st-1", "room-1", "5/3/2026", "19:00"), 60))

	// starts inside the occupied interval
	err := repo.Create(ctx, newShowtime("st-2", "room-1", "5/3/2026", "20:00"), 60)
	assert.ErrorIs(t, err, ErrScheduleConflict)

	// ends inside it
	err = repo.Create(ctx, newShowtime("st-3", "room-1", "5/3/2026", "18:00"), 60)
	assert.ErrorIs(t, err, ErrScheduleConflict)
}

func TestShowtimeBackToBackAllowed(t *testing.T) {
	ctx := context.Background()
	repo := NewShowtimeRepo(store.NewMemory())

	require.NoError(t, repo.Create(ctx, newShowtime("st-1", "room-1", "5/3/2026", "19:00"), 60))

	// half-open intervals: starting exactly at the previous end is fine
	require.NoError(t, repo.Create(ctx, newShowtime("st-2", "room-1", "5/3/2026", "20:30"), 60))
}

func TestShowtimeOtherRoomOrDateUnaffected(t *testing.T) {
	ctx := context.Background()
	repo := NewShowtimeRepo(store.NewMemory())

	require.NoError(t, repo.Create(ctx, newShowtime("st-1", "room-1", "5/3/2026", "19:00"), 60))
	require.NoError(t, repo.Create(ctx, newShowtime("st-2", "room-2", "5/3/2026", "19:00"), 60))
	require.NoError(t, repo.Create(ctx, newShowtime("st-3", "room-1", "6/3/2026", "19:00"), 60))
}

func TestShowtimeListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewShowtimeRepo(store.NewMemory())

	require.NoError(t, repo.Create(ctx, newShowtime("st-1", "room-1", "5/3/2026", "10:00"), 60))
	other := newShowtime("st-2", "room-2", "5/3/2026", "10:00")
	other.MovieID = "movie-2"
	require.NoError(t, repo.Create(ctx, other, 60))

	byMovie, err := repo.ListByMovie(ctx, "movie-1")
	require.NoError(t, err)
	require.Len(t, byMovie, 1)
	assert.Equal(t, "st-1", byMovie[0].ID)

	byBoth, err := repo.ListByMovieAndRoom(ctx, "movie-1", "room-2")
	require.NoError(t, err)
	assert.Empty(t, byBoth)

	byRoom, err := repo.ListByRoom(ctx, "room-2")
	require.NoError(t, err)
	require.Len(t, byRoom, 1)
	assert.Equal(t, "st-2", byRoom[0].ID)
}

func TestShowtimeDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewShowtimeRepo(store.NewMemory())

	require.NoError(t, repo.Create(ctx, newShowtime("st-1", "room-1", "5/3/2026", "10:00"), 60))
	require.NoError(t, repo.Delete(ctx, "st-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "st-1"), ErrShowtimeNotFound)

	_, err := repo.GetByID(ctx, "st-1")
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}
