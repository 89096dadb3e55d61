package booking

import (
	"context"
	"sort"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/repository"
)

// ConcessionSelector validates concession picks against live stock. The
// quantity a customer asks for is clamped into [0, stock] rather than
// rejected, matching the storefront behaviour of quietly capping at what
// is left; the authoritative stock check still happens at commit time.
type ConcessionSelector struct {
	foods *repository.FoodRepo
}

// NewConcessionSelector constructs a selector over the food catalogue.
func NewConcessionSelector(foods *repository.FoodRepo) *ConcessionSelector {
	return &ConcessionSelector{foods: foods}
}

// Clamp resolves the food item and caps qty at its current stock.
// Negative quantities clamp to zero, which removes the line.
func (c *ConcessionSelector) Clamp(ctx context.Context, foodID string, qty int) (int, error) {
	f, err := c.foods.Get(ctx, foodID)
	if err != nil {
		return 0, err
	}
	if qty < 0 {
		qty = 0
	}
	if qty > f.Quantity {
		qty = f.Quantity
	}
	return qty, nil
}

// Line is one priced concession row of a review summary.
type Line struct {
	Food     model.Food `json:"food"`
	Quantity int        `json:"quantity"`
	Subtotal int64      `json:"subtotal"`
}

// Price re-reads every picked item and computes per-line and total
// subtotals from current catalogue prices. Prices are never cached in
// the session, so an admin price edit mid-booking is reflected here and
// in the committed total.
func (c *ConcessionSelector) Price(ctx context.Context, picks map[string]int) ([]Line, int64, error) {
	lines := make([]Line, 0, len(picks))
	var total int64
	for foodID, qty := range picks {
		if qty <= 0 {
			continue
		}
		f, err := c.foods.Get(ctx, foodID)
		if err != nil {
			return nil, 0, err
		}
		sub := f.Price * int64(qty)
		lines = append(lines, Line{Food: *f, Quantity: qty, Subtotal: sub})
		total += sub
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Food.ID < lines[j].Food.ID })
	return lines, total, nil
}
