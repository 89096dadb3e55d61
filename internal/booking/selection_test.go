package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/repository"
	"github.com/cinetick/booking/internal/store"
)

func newSelector(t *testing.T, stock int) (*ConcessionSelector, *repository.FoodRepo) {
	t.Helper()
	foods := repository.NewFoodRepo(store.NewMemory())
	require.NoError(t, foods.Create(context.Background(), &model.Food{
		ID: "food-1", Name: "Popcorn", Price: 20000, Quantity: stock,
	}))
	return NewConcessionSelector(foods), foods
}

func TestClampCapsAtStock(t *testing.T) {
	ctx := context.Background()
	sel, _ := newSelector(t, 5)

	qty, err := sel.Clamp(ctx, "food-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	qty, err = sel.Clamp(ctx, "food-1", 8)
	require.NoError(t, err)
	assert.Equal(t, 5, qty, "requests above stock clamp down")

	qty, err = sel.Clamp(ctx, "food-1", -2)
	require.NoError(t, err)
	assert.Zero(t, qty, "negative requests clamp to zero")

	_, err = sel.Clamp(ctx, "missing", 1)
	assert.ErrorIs(t, err, repository.ErrFoodNotFound)
}

func TestClampZeroStock(t *testing.T) {
	ctx := context.Background()
	sel, _ := newSelector(t, 0)

	qty, err := sel.Clamp(ctx, "food-1", 4)
	require.NoError(t, err)
	assert.Zero(t, qty)
}

func TestPriceComputesSubtotals(t *testing.T) {
	ctx := context.Background()
	sel, foods := newSelector(t, 5)
	require.NoError(t, foods.Create(ctx, &model.Food{
		ID: "food-2", Name: "Cola", Price: 15000, Quantity: 10,
	}))

	lines, total, err := sel.Price(ctx, map[string]int{"food-1": 2, "food-2": 3})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	// lines come back sorted by food id
	assert.Equal(t, "food-1", lines[0].Food.ID)
	assert.Equal(t, int64(40000), lines[0].Subtotal)
	assert.Equal(t, int64(45000), lines[1].Subtotal)
	assert.Equal(t, int64(85000), total)
}

func TestPriceSkipsZeroLines(t *testing.T) {
	ctx := context.Background()
	sel, _ := newSelector(t, 5)

	lines, total, err := sel.Price(ctx, map[string]int{"food-1": 0})
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Zero(t, total)
}

func TestHoldsNilClientIsInert(t *testing.T) {
	ctx := context.Background()
	seats := repository.NewSeatRepo(store.NewMemory())
	h := NewHolds(nil, seats)

	// none of these may panic or error without Redis
	h.Mirror(ctx, "session-1", []string{"a", "b"}, 0)
	h.Clear(ctx, "session-1")
	assert.NoError(t, h.RecoverOrphans(ctx))
}
