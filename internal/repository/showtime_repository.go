package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/store"
)

// CleaningBufferMinutes is added after every screening before the room
// can host the next one.
const CleaningBufferMinutes = 30

// minutesPerDay is used to unwrap showtimes that cross midnight.
const minutesPerDay = 24 * 60

// ShowtimeRepo manages showtime documents and enforces the per-room
// schedule invariant: no two showtimes in the same room on the same date
// may overlap, end times included the cleaning buffer.
type ShowtimeRepo struct {
	store store.Store
}

// NewShowtimeRepo constructs a ShowtimeRepo backed by the given store.
func NewShowtimeRepo(s store.Store) *ShowtimeRepo {
	return &ShowtimeRepo{store: s}
}

// ParseClock parses the stored "H:MM" clock format (hour unpadded, minute
// zero-padded) into minutes since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight back into the stored "H:MM"
// format, wrapping past midnight.
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// ValidateDate checks the stored "D/M/YYYY" date format (day and month
// unpadded). The components are range-checked but not calendar-checked;
// the format is a legacy display convention, not a sort key.
func ValidateDate(date string) error {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return fmt.Errorf("invalid date %q", date)
	}
	d, err := strconv.Atoi(parts[0])
	if err != nil || d < 1 || d > 31 {
		return fmt.Errorf("invalid date %q", date)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return fmt.Errorf("invalid date %q", date)
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil || y < 1900 {
		return fmt.Errorf("invalid date %q", date)
	}
	return nil
}

// ComputeEndTime derives a showtime's end clock from its start and the
// movie's running time plus the cleaning buffer.
func ComputeEndTime(startTime string, durationMinutes int) (string, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return "", err
	}
	return FormatClock(start + durationMinutes + CleaningBufferMinutes), nil
}

// interval returns a showtime's [start, end) minute interval, unwrapping
// screenings that run past midnight so end > start always holds.
func interval(st model.Showtime) (int, int, error) {
	start, err := ParseClock(st.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(st.EndTime)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		end += minutesPerDay
	}
	return start, end, nil
}

// Create validates the showtime, derives its end time from the movie
// duration and inserts it, rejecting with ErrScheduleConflict when the
// interval overlaps any existing showtime in the same room on the same
// date. Intervals are half open: a screening may start exactly when the
// previous one's buffer ends.
func (r *ShowtimeRepo) Create(ctx context.Context, st *model.Showtime, movieDuration int) error {
	if err := ValidateDate(st.Date); err != nil {
		return err
	}
	endTime, err := ComputeEndTime(st.StartTime, movieDuration)
	if err != nil {
		return err
	}
	st.EndTime = endTime

	newStart, newEnd, err := interval(*st)
	if err != nil {
		return err
	}
	existing, err := r.ListByRoom(ctx, st.ScreeningRoomID)
	if err != nil {
		return err
	}
	for _, ex := range existing {
		if ex.Date != st.Date || ex.ID == st.ID {
			continue
		}
		exStart, exEnd, err := interval(ex)
		if err != nil {
			return err
		}
		if newStart < exEnd && newEnd > exStart {
			return ErrScheduleConflict
		}
	}
	return r.store.Set(ctx, store.Showtimes, st.ID, st)
}

// GetByID retrieves a single showtime.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id string) (*model.Showtime, error) {
	var st model.Showtime
	if err := r.store.Get(ctx, store.Showtimes, id, &st); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &st, nil
}

// ListByRoom returns all showtimes scheduled in a room.
func (r *ShowtimeRepo) ListByRoom(ctx context.Context, roomID string) ([]model.Showtime, error) {
	var out []model.Showtime
	if err := r.store.QueryByField(ctx, store.Showtimes, "screeningRoomId", roomID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByMovie returns all showtimes of a movie across rooms.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID string) ([]model.Showtime, error) {
	var out []model.Showtime
	if err := r.store.QueryByField(ctx, store.Showtimes, "movieId", movieID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByMovieAndRoom narrows a movie's showtimes to one room. Used by the
// booking flow to offer dates and times after the room is chosen.
func (r *ShowtimeRepo) ListByMovieAndRoom(ctx context.Context, movieID, roomID string) ([]model.Showtime, error) {
	all, err := r.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Showtime, 0, len(all))
	for _, st := range all {
		if st.ScreeningRoomID == roomID {
			out = append(out, st)
		}
	}
	return out, nil
}

// Delete removes a showtime.
func (r *ShowtimeRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, store.Showtimes, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrShowtimeNotFound
	}
	return err
}
