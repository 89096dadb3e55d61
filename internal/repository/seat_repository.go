package repository

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/store"
)

// RowWidth is the number of seats rendered per grid row.
const RowWidth = 9

// SeatRepo manages seat documents. Seats are provisioned in bulk when a
// room is created and afterwards only flip their selected/reserved flags.
type SeatRepo struct {
	store store.Store
}

// NewSeatRepo constructs a SeatRepo backed by the given document store.
func NewSeatRepo(s store.Store) *SeatRepo {
	return &SeatRepo{store: s}
}

// Provision creates seat documents for a room up to the given capacity.
// The operation is idempotent: seats that already exist are left untouched
// and only the missing tail ("existing+1".."capacity") is created, so a
// partially failed provisioning can simply be re-run. Reducing capacity is
// rejected with ErrCapacityShrink because existing seats may already be
// referenced by issued tickets.
func (r *SeatRepo) Provision(ctx context.Context, roomID string, capacity int) error {
	existing, err := r.ListByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if len(existing) > capacity {
		return ErrCapacityShrink
	}
	for n := len(existing) + 1; n <= capacity; n++ {
		seat := model.Seat{
			ID:              model.SeatID(roomID, n),
			ScreeningRoomID: roomID,
			Name:            strconv.Itoa(n),
		}
		if err := r.store.Set(ctx, store.Seats, seat.ID, seat); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a single seat by id.
func (r *SeatRepo) Get(ctx context.Context, seatID string) (*model.Seat, error) {
	var seat model.Seat
	if err := r.store.Get(ctx, store.Seats, seatID, &seat); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &seat, nil
}

// ListByRoom returns all seats of a room ordered by seat number. The
// store's lexicographic id order would interleave "10" before "2", so the
// result is re-sorted numerically on the Name field.
func (r *SeatRepo) ListByRoom(ctx context.Context, roomID string) ([]model.Seat, error) {
	var seats []model.Seat
	if err := r.store.QueryByField(ctx, store.Seats, "screeningRoomId", roomID, &seats); err != nil {
		return nil, err
	}
	sort.Slice(seats, func(i, j int) bool {
		a, _ := strconv.Atoi(seats[i].Name)
		b, _ := strconv.Atoi(seats[j].Name)
		return a < b
	})
	return seats, nil
}

// ListByIDs fetches the given seats in order. Missing ids surface as
// ErrSeatNotFound rather than a shorter slice.
func (r *SeatRepo) ListByIDs(ctx context.Context, seatIDs []string) ([]model.Seat, error) {
	seats := make([]model.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		seat, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *seat)
	}
	return seats, nil
}

// SetSelected flips the transient selection marker. Selection does not
// bump the seat version: two sessions may freely select the same seat and
// the conditional write at commit time arbitrates between them. Selecting
// a seat that is already reserved fails with ErrSeatReserved.
func (r *SeatRepo) SetSelected(ctx context.Context, seatID string, selected bool) error {
	seat, err := r.Get(ctx, seatID)
	if err != nil {
		return err
	}
	if selected && seat.Reserved {
		return ErrSeatReserved
	}
	return r.store.Update(ctx, store.Seats, seatID, map[string]any{
		"selected": selected,
	})
}

// Reserve durably marks a seat as sold, conditional on the version the
// caller read. A version mismatch means another booking won the seat in
// the meantime and maps to ErrSeatConflict; the caller must abort and
// compensate. The returned error is nil only when this call transitioned
// the seat to reserved.
func (r *SeatRepo) Reserve(ctx context.Context, seatID string, expectedVersion uint64) error {
	seat, err := r.Get(ctx, seatID)
	if err != nil {
		return err
	}
	if seat.Reserved {
		return ErrSeatConflict
	}
	err = r.store.UpdateIf(ctx, store.Seats, seatID, map[string]any{
		"reserved": true,
		"selected": false,
		"version":  expectedVersion + 1,
	}, expectedVersion)
	if errors.Is(err, store.ErrVersionMismatch) {
		return ErrSeatConflict
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrSeatNotFound
	}
	return err
}

// Release undoes a reservation during saga compensation. Unlike Reserve
// it is unconditional: compensation must not fail on a version race, and
// the version still bumps so concurrent commits observe the change.
func (r *SeatRepo) Release(ctx context.Context, seatID string) error {
	seat, err := r.Get(ctx, seatID)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, store.Seats, seatID, map[string]any{
		"reserved": false,
		"selected": false,
		"version":  seat.Version + 1,
	})
}

// DeleteByRoom removes every seat belonging to a room. Used when an admin
// deletes the room itself.
func (r *SeatRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	seats, err := r.ListByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	for _, seat := range seats {
		if err := r.store.Delete(ctx, store.Seats, seat.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return nil
}

// GridRows chunks an ordered seat list into display rows of RowWidth
// seats each; the last row may be shorter.
func GridRows(seats []model.Seat) [][]model.Seat {
	var rows [][]model.Seat
	for start := 0; start < len(seats); start += RowWidth {
		end := start + RowWidth
		if end > len(seats) {
			end = len(seats)
		}
		rows = append(rows, seats[start:end])
	}
	return rows
}
