package repository

import (
	"context"
	"errors"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/store"
)

// TicketRepo manages the append-only ticket ledger. Tickets are written
// once at commit time and never updated; price or schedule edits after the
// fact must not alter what was sold.
type TicketRepo struct {
	store store.Store
}

// NewTicketRepo constructs a TicketRepo backed by the given store.
func NewTicketRepo(s store.Store) *TicketRepo {
	return &TicketRepo{store: s}
}

// Create persists a freshly issued ticket.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	return r.store.Set(ctx, store.Tickets, t.ID, t)
}

// GetByID retrieves a single ticket.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.store.Get(ctx, store.Tickets, id, &t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByUser returns every ticket a user has purchased.
func (r *TicketRepo) ListByUser(ctx context.Context, userID string) ([]model.Ticket, error) {
	var out []model.Ticket
	if err := r.store.QueryByField(ctx, store.Tickets, "userId", userID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// All returns the full ledger, for admin reporting.
func (r *TicketRepo) All(ctx context.Context) ([]model.Ticket, error) {
	var out []model.Ticket
	if err := r.store.All(ctx, store.Tickets, &out); err != nil {
		return nil, err
	}
	return out, nil
}
