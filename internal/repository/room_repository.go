package repository

import (
	"context"
	"errors"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/store"
)

// RoomRepo manages screening room documents. Seat provisioning is owned
// by SeatRepo; RoomRepo only stores the room record itself.
type RoomRepo struct {
	store store.Store
}

// NewRoomRepo constructs a RoomRepo backed by the given store.
func NewRoomRepo(s store.Store) *RoomRepo {
	return &RoomRepo{store: s}
}

// Create inserts a new screening room.
func (r *RoomRepo) Create(ctx context.Context, room *model.ScreeningRoom) error {
	return r.store.Set(ctx, store.ScreeningRooms, room.ID, room)
}

// Get retrieves a single room.
func (r *RoomRepo) Get(ctx context.Context, id string) (*model.ScreeningRoom, error) {
	var room model.ScreeningRoom
	if err := r.store.Get(ctx, store.ScreeningRooms, id, &room); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// List returns every screening room.
func (r *RoomRepo) List(ctx context.Context) ([]model.ScreeningRoom, error) {
	var out []model.ScreeningRoom
	if err := r.store.All(ctx, store.ScreeningRooms, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update mutates room fields. Capacity changes go through the handler,
// which re-provisions seats and enforces the no-shrink rule first.
func (r *RoomRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	err := r.store.Update(ctx, store.ScreeningRooms, id, fields)
	if errors.Is(err, store.ErrNotFound) {
		return ErrRoomNotFound
	}
	return err
}

// Delete removes a room record.
func (r *RoomRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, store.ScreeningRooms, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrRoomNotFound
	}
	return err
}
