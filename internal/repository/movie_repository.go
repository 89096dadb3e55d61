package repository

import (
	"context"
	"errors"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/store"
)

// MovieRepo manages the movie catalogue.
type MovieRepo struct {
	store store.Store
}

// NewMovieRepo constructs a MovieRepo backed by the given store.
func NewMovieRepo(s store.Store) *MovieRepo {
	return &MovieRepo{store: s}
}

// Create inserts a new movie.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	return r.store.Set(ctx, store.Movies, m.ID, m)
}

// Get retrieves a single movie.
func (r *MovieRepo) Get(ctx context.Context, id string) (*model.Movie, error) {
	var m model.Movie
	if err := r.store.Get(ctx, store.Movies, id, &m); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns the whole catalogue.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	var out []model.Movie
	if err := r.store.All(ctx, store.Movies, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByStatus returns movies in one lifecycle status, e.g. currently
// showing versus coming soon.
func (r *MovieRepo) ListByStatus(ctx context.Context, status string) ([]model.Movie, error) {
	var out []model.Movie
	if err := r.store.QueryByField(ctx, store.Movies, "status", status, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update mutates movie fields.
func (r *MovieRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	err := r.store.Update(ctx, store.Movies, id, fields)
	if errors.Is(err, store.ErrNotFound) {
		return ErrMovieNotFound
	}
	return err
}

// Delete removes a movie from the catalogue.
func (r *MovieRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, store.Movies, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrMovieNotFound
	}
	return err
}
