package repository

import (
	"context"
	"errors"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/store"
)

// FoodRepo manages concession stock documents. Stock mutations at commit
// time are version-conditional so two bookings cannot both consume the
// same last units.
type FoodRepo struct {
	store store.Store
}

// NewFoodRepo constructs a FoodRepo backed by the given store.
func NewFoodRepo(s store.Store) *FoodRepo {
	return &FoodRepo{store: s}
}

// Create inserts a new food item.
func (r *FoodRepo) Create(ctx context.Context, f *model.Food) error {
	return r.store.Set(ctx, store.Foods, f.ID, f)
}

// Get retrieves a single food item.
func (r *FoodRepo) Get(ctx context.Context, id string) (*model.Food, error) {
	var f model.Food
	if err := r.store.Get(ctx, store.Foods, id, &f); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return &f, nil
}

// List returns the whole concession catalogue.
func (r *FoodRepo) List(ctx context.Context) ([]model.Food, error) {
	var out []model.Food
	if err := r.store.All(ctx, store.Foods, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDetails mutates display fields of a food item. Stock counters are
// deliberately excluded; those only move through RecordSale and
// RestoreSale so quantity and sold stay in lockstep.
func (r *FoodRepo) UpdateDetails(ctx context.Context, id string, fields map[string]any) error {
	for _, k := range []string{"quantity", "sold", "version"} {
		delete(fields, k)
	}
	err := r.store.Update(ctx, store.Foods, id, fields)
	if errors.Is(err, store.ErrNotFound) {
		return ErrFoodNotFound
	}
	return err
}

// Restock adds qty units to an item's stock. Admin-only; the version
// bumps so a concurrent conditional sale re-reads before decrementing.
func (r *FoodRepo) Restock(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return nil
	}
	f, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, store.Foods, id, map[string]any{
		"quantity": f.Quantity + qty,
		"version":  f.Version + 1,
	})
}

// RecordSale decrements stock and increments the sold counter by qty,
// conditional on the version the caller read. ErrInsufficientStock means
// the item no longer has qty units; ErrStockConflict means another sale
// moved the version first and the caller should re-read and retry.
func (r *FoodRepo) RecordSale(ctx context.Context, id string, qty int, expectedVersion uint64) error {
	f, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if f.Quantity < qty {
		return ErrInsufficientStock
	}
	err = r.store.UpdateIf(ctx, store.Foods, id, map[string]any{
		"quantity": f.Quantity - qty,
		"sold":     f.Sold + qty,
		"version":  expectedVersion + 1,
	}, expectedVersion)
	if errors.Is(err, store.ErrVersionMismatch) {
		return ErrStockConflict
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrFoodNotFound
	}
	return err
}

// RestoreSale returns qty units to stock during saga compensation. Like
// seat release it is unconditional but still bumps the version so a
// concurrent conditional sale observes the movement.
func (r *FoodRepo) RestoreSale(ctx context.Context, id string, qty int) error {
	f, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	sold := f.Sold - qty
	if sold < 0 {
		sold = 0
	}
	return r.store.Update(ctx, store.Foods, id, map[string]any{
		"quantity": f.Quantity + qty,
		"sold":     sold,
		"version":  f.Version + 1,
	})
}

// Delete removes a food item from the catalogue.
func (r *FoodRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, store.Foods, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrFoodNotFound
	}
	return err
}
