package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/queue"
	"github.com/cinetick/booking/internal/repository"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events []queue.TicketIssuedEvent
}

func (p *recordingPublisher) PublishTicketIssued(_ context.Context, ev queue.TicketIssuedEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func newOrchestrator(f *fixture, pub Publisher) *Orchestrator {
	return NewOrchestrator(f.manager, f.selector, f.seats, f.foods, f.showtimes, f.tickets, pub)
}

var customer = model.User{ID: "user-1", Role: model.RoleUser}

func TestCommitIssuesTicket(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	pub := &recordingPublisher{}
	o := newOrchestrator(f, pub)

	s := f.advance(t, "user-1")
	_, err := f.manager.SelectSeat(ctx, s.ID, "user-1", "room-1-Seat-1")
	require.NoError(t, err)
	_, err = f.manager.SelectSeat(ctx, s.ID, "user-1", "room-1-Seat-2")
	require.NoError(t, err)
	_, err = f.manager.SetFood(ctx, s.ID, "user-1", "food-1", 2)
	require.NoError(t, err)

	ticket, err := o.Commit(ctx, s.ID, customer)
	require.NoError(t, err)

	// 2 seats at 90000 plus 2 popcorn at 20000
	assert.Equal(t, int64(220000), ticket.TotalPrice)
	assert.Equal(t, []string{"room-1-Seat-1", "room-1-Seat-2"}, ticket.SeatIDs)
	assert.Equal(t, "user-1", ticket.UserID)
	assert.Equal(t, "st-1", ticket.ShowtimeID)
	assert.Equal(t, []model.FoodLine{{FoodID: "food-1", Quantity: 2}}, ticket.SelectedFood)

	// seats are durably reserved
	for _, id := range ticket.SeatIDs {
		seat, err := f.seats.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, seat.Reserved)
		assert.False(t, seat.Selected)
	}

	// stock moved
	food, err := f.foods.Get(ctx, "food-1")
	require.NoError(t, err)
	assert.Equal(t, 3, food.Quantity)
	assert.Equal(t, 2, food.Sold)

	// ledger holds the ticket
	stored, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.TotalPrice, stored.TotalPrice)

	// session is gone and the event went out
	_, err = f.manager.Get(ctx, s.ID, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	require.Len(t, pub.events, 1)
	assert.Equal(t, ticket.ID, pub.events[0].TicketID)
	assert.Equal(t, int64(220000), pub.events[0].TotalPrice)
}

func TestCommitSeatsOnlyNoFood(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	o := newOrchestrator(f, nil)

	s := f.advance(t, "user-1")
	_, err := f.manager.SelectSeat(ctx, s.ID, "user-1", "room-1-Seat-3")
	require.NoError(t, err)

	ticket, err := o.Commit(ctx, s.ID, customer)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), ticket.TotalPrice)
	assert.Empty(t, ticket.SelectedFood)
}

func TestCommitRejectsAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	o := newOrchestrator(f, nil)

	s := f.advance(t, "admin-1")
	_, err := f.manager.SelectSeat(ctx, s.ID, "admin-1", "room-1-Seat-1")
	require.NoError(t, err)

	_, err = o.Commit(ctx, s.ID, model.User{ID: "admin-1", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrAdminPurchase)

	// nothing moved
	seat, err := f.seats.Get(ctx, "room-1-Seat-1")
	require.NoError(t, err)
	assert.False(t, seat.Reserved)
}

func TestCommitRejectsEmptySelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	o := newOrchestrator(f, nil)

	s := f.advance(t, "user-1")
	_, err := o.Commit(ctx, s.ID, customer)
	assert.ErrorIs(t, err, ErrNoSeatsSelected)
}

func TestCommitRaceExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	o := newOrchestrator(f, nil)

	// both sessions select the same seat; selection never conflicts
	sa := f.advance(t, "alice")
	_, err := f.manager.SelectSeat(ctx, sa.ID, "alice", "room-1-Seat-1")
	require.NoError(t, err)

	sb := f.advance(t, "bob")
	_, err = f.manager.SelectSeat(ctx, sb.ID, "bob", "room-1-Seat-1")
	require.NoError(t, err)

	ticket, err := o.Commit(ctx, sa.ID, model.User{ID: "alice", Role: model.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, []string{"room-1-Seat-1"}, ticket.SeatIDs)

	_, err = o.Commit(ctx, sb.ID, model.User{ID: "bob", Role: model.RoleUser})
	assert.ErrorIs(t, err, repository.ErrSeatConflict)

	// the seat belongs to the winner
	seat, err := f.seats.Get(ctx, "room-1-Seat-1")
	require.NoError(t, err)
	assert.True(t, seat.Reserved)
}

func TestCommitLoserStockRestored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	o := newOrchestrator(f, nil)

	sa := f.advance(t, "alice")
	_, err := f.manager.SelectSeat(ctx, sa.ID, "alice", "room-1-Seat-1")
	require.NoError(t, err)

	sb := f.advance(t, "bob")
	_, err = f.manager.SelectSeat(ctx, sb.ID, "bob", "room-1-Seat-1")
	require.NoError(t, err)
	_, err = f.manager.SetFood(ctx, sb.ID, "bob", "food-1", 2)
	require.NoError(t, err)

	_, err = o.Commit(ctx, sa.ID, model.User{ID: "alice", Role: model.RoleUser})
	require.NoError(t, err)

	_, err = o.Commit(ctx, sb.ID, model.User{ID: "bob", Role: model.RoleUser})
	require.ErrorIs(t, err, repository.ErrSeatConflict)

	// bob's popcorn went back on the shelf
	food, err := f.foods.Get(ctx, "food-1")
	require.NoError(t, err)
	assert.Equal(t, 5, food.Quantity)
	assert.Equal(t, 0, food.Sold)
}

func TestCommitPartialSeatConflictReleasesWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	o := newOrchestrator(f, nil)

	// alice takes seat 2 outright
	sa := f.advance(t, "alice")
	_, err := f.manager.SelectSeat(ctx, sa.ID, "alice", "room-1-Seat-2")
	require.NoError(t, err)
	_, err = o.Commit(ctx, sa.ID, model.User{ID: "alice", Role: model.RoleUser})
	require.NoError(t, err)

	// bob wants seats 1 and 2; the second reserve must fail and the
	// first must be rolled back
	sb := f.advance(t, "bob")
	_, err = f.manager.SelectSeat(ctx, sb.ID, "bob", "room-1-Seat-1")
	require.NoError(t, err)
	_, err = f.manager.SelectSeat(ctx, sb.ID, "bob", "room-1-Seat-2")
	require.ErrorIs(t, err, repository.ErrSeatReserved)

	// force the race instead: bob holds seat 1 plus the now reserved
	// seat 2 recorded before alice committed
	sb2 := f.advance(t, "carol")
	_, err = f.manager.SelectSeat(ctx, sb2.ID, "carol", "room-1-Seat-1")
	require.NoError(t, err)
	_, err = f.manager.SelectSeat(ctx, sb2.ID, "carol", "room-1-Seat-3")
	require.NoError(t, err)

	// take seat 3 behind carol's back so her second reserve fails
	require.NoError(t, f.seats.Reserve(ctx, "room-1-Seat-3", 0))

	_, err = o.Commit(ctx, sb2.ID, model.User{ID: "carol", Role: model.RoleUser})
	require.ErrorIs(t, err, repository.ErrSeatConflict)

	// carol's first seat was released by compensation
	seat, err := f.seats.Get(ctx, "room-1-Seat-1")
	require.NoError(t, err)
	assert.False(t, seat.Reserved)
}

func TestCommitInsufficientStockFailsBeforeSeats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	o := newOrchestrator(f, nil)

	// two customers each want 3 of the 5 remaining popcorn
	sa := f.advance(t, "alice")
	_, err := f.manager.SelectSeat(ctx, sa.ID, "alice", "room-1-Seat-1")
	require.NoError(t, err)
	_, err = f.manager.SetFood(ctx, sa.ID, "alice", "food-1", 3)
	require.NoError(t, err)

	sb := f.advance(t, "bob")
	_, err = f.manager.SelectSeat(ctx, sb.ID, "bob", "room-1-Seat-2")
	require.NoError(t, err)
	_, err = f.manager.SetFood(ctx, sb.ID, "bob", "food-1", 3)
	require.NoError(t, err)

	_, err = o.Commit(ctx, sa.ID, model.User{ID: "alice", Role: model.RoleUser})
	require.NoError(t, err)

	_, err = o.Commit(ctx, sb.ID, model.User{ID: "bob", Role: model.RoleUser})
	require.ErrorIs(t, err, repository.ErrInsufficientStock)

	// bob's seat was never reserved; stock stayed at what alice left
	seat, err := f.seats.Get(ctx, "room-1-Seat-2")
	require.NoError(t, err)
	assert.False(t, seat.Reserved)

	food, err := f.foods.Get(ctx, "food-1")
	require.NoError(t, err)
	assert.Equal(t, 2, food.Quantity)
	assert.Equal(t, 3, food.Sold)
}

func TestBuildReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	o := newOrchestrator(f, nil)

	s := f.advance(t, "user-1")
	_, err := f.manager.SelectSeat(ctx, s.ID, "user-1", "room-1-Seat-1")
	require.NoError(t, err)
	_, err = f.manager.SelectSeat(ctx, s.ID, "user-1", "room-1-Seat-2")
	require.NoError(t, err)
	_, err = f.manager.SetFood(ctx, s.ID, "user-1", "food-1", 2)
	require.NoError(t, err)

	review, err := o.BuildReview(ctx, s.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(180000), review.SeatTotal)
	assert.Equal(t, int64(40000), review.FoodTotal)
	assert.Equal(t, int64(220000), review.TotalPrice)
	require.Len(t, review.Seats, 2)
	require.Len(t, review.FoodLines, 1)
	assert.Equal(t, int64(40000), review.FoodLines[0].Subtotal)
	assert.Equal(t, "Arrival", review.Showtime.MovieName)
}

func TestReviewReflectsPriceEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Minute)
	o := newOrchestrator(f, nil)

	s := f.advance(t, "user-1")
	_, err := f.manager.SelectSeat(ctx, s.ID, "user-1", "room-1-Seat-1")
	require.NoError(t, err)
	_, err = f.manager.SetFood(ctx, s.ID, "user-1", "food-1", 1)
	require.NoError(t, err)

	// an admin halves the popcorn price mid-session
	require.NoError(t, f.foods.UpdateDetails(ctx, "food-1", map[string]any{"price": int64(10000)}))

	review, err := o.BuildReview(ctx, s.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), review.FoodTotal, "prices are re-read, never cached")
}
