package booking

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/monitoring"
	"github.com/cinetick/booking/internal/queue"
	"github.com/cinetick/booking/internal/repository"
)

// stockRetries bounds how often a conditional stock decrement is retried
// after losing a version race before the commit fails outright.
const stockRetries = 3

// Publisher emits the ticket issued event after a successful commit.
// Publishing is best effort; a broker outage never rolls back a sale.
type Publisher interface {
	PublishTicketIssued(ctx context.Context, ev queue.TicketIssuedEvent) error
}

// Review is the priced summary shown before commit.
type Review struct {
	Session    Session        `json:"session"`
	Showtime   model.Showtime `json:"showtime"`
	Seats      []model.Seat   `json:"seats"`
	FoodLines  []Line         `json:"foodLines"`
	SeatTotal  int64          `json:"seatTotal"`
	FoodTotal  int64          `json:"foodTotal"`
	TotalPrice int64          `json:"totalPrice"`
}

// Orchestrator drives the commit saga. The document store offers no
// multi-document transaction, so the commit is ordered as stock first,
// seats second, ticket last, with explicit compensation of every
// completed step when a later one fails.
type Orchestrator struct {
	sessions  *Manager
	selector  *ConcessionSelector
	seats     *repository.SeatRepo
	foods     *repository.FoodRepo
	showtimes *repository.ShowtimeRepo
	tickets   *repository.TicketRepo
	publisher Publisher
}

// NewOrchestrator wires the commit saga over the given repositories.
// publisher may be nil when no broker is configured.
func NewOrchestrator(
	sessions *Manager,
	selector *ConcessionSelector,
	seats *repository.SeatRepo,
	foods *repository.FoodRepo,
	showtimes *repository.ShowtimeRepo,
	tickets *repository.TicketRepo,
	publisher Publisher,
) *Orchestrator {
	return &Orchestrator{
		sessions:  sessions,
		selector:  selector,
		seats:     seats,
		foods:     foods,
		showtimes: showtimes,
		tickets:   tickets,
		publisher: publisher,
	}
}

// BuildReview assembles the priced pre-commit summary for a session.
func (o *Orchestrator) BuildReview(ctx context.Context, sessionID, userID string) (*Review, error) {
	s, err := o.sessions.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if len(s.SeatIDs) == 0 {
		return nil, ErrNoSeatsSelected
	}
	st, err := o.showtimes.GetByID(ctx, s.ShowtimeID)
	if err != nil {
		return nil, err
	}
	seats, err := o.seats.ListByIDs(ctx, s.SeatIDs)
	if err != nil {
		return nil, err
	}
	lines, foodTotal, err := o.selector.Price(ctx, s.Food)
	if err != nil {
		return nil, err
	}
	seatTotal := st.TicketPrice * int64(len(seats))
	return &Review{
		Session:    s,
		Showtime:   *st,
		Seats:      seats,
		FoodLines:  lines,
		SeatTotal:  seatTotal,
		FoodTotal:  foodTotal,
		TotalPrice: seatTotal + foodTotal,
	}, nil
}

// Commit finalizes a booking session into an issued ticket.
//
// Order of operations and their compensations:
//  1. decrement food stock (conditional per item; restore on failure)
//  2. reserve seats (conditional per seat; release on failure)
//  3. write the ticket (restore stock and release seats on failure)
//
// Exactly one of two sessions racing for the same seat succeeds; the
// loser's conditional write fails and surfaces ErrSeatConflict after its
// completed steps are undone.
func (o *Orchestrator) Commit(ctx context.Context, sessionID string, user model.User) (*model.Ticket, error) {
	start := time.Now()
	if user.IsAdmin() {
		return nil, ErrAdminPurchase
	}
	s, err := o.sessions.Get(ctx, sessionID, user.ID)
	if err != nil {
		return nil, err
	}
	if len(s.SeatIDs) == 0 {
		return nil, ErrNoSeatsSelected
	}
	st, err := o.showtimes.GetByID(ctx, s.ShowtimeID)
	if err != nil {
		return nil, err
	}

	foodLines, foodTotal, err := o.consumeStock(ctx, s.Food)
	if err != nil {
		o.recordOutcome(err, start)
		return nil, err
	}

	reserved, err := o.reserveSeats(ctx, s.SeatIDs)
	if err != nil {
		o.releaseSeats(ctx, reserved)
		o.restoreStock(ctx, foodLines)
		o.recordOutcome(err, start)
		return nil, err
	}

	ticket := &model.Ticket{
		ID:              uuid.NewString(),
		MovieID:         s.MovieID,
		ScreeningRoomID: s.RoomID,
		ShowtimeID:      s.ShowtimeID,
		SeatIDs:         append([]string(nil), s.SeatIDs...),
		UserID:          user.ID,
		TotalPrice:      st.TicketPrice*int64(len(s.SeatIDs)) + foodTotal,
		SelectedFood:    foodLines,
	}
	if err := o.tickets.Create(ctx, ticket); err != nil {
		o.releaseSeats(ctx, s.SeatIDs)
		o.restoreStock(ctx, foodLines)
		o.recordOutcome(err, start)
		return nil, err
	}

	o.sessions.Complete(ctx, sessionID)
	o.publish(ctx, ticket, st)
	monitoring.BookingCommits.WithLabelValues("committed").Inc()
	monitoring.CommitDuration.Observe(time.Since(start).Seconds())
	return ticket, nil
}

// consumeStock decrements every picked item, retrying version races a
// bounded number of times. On any failure the already consumed lines are
// restored before the error returns. The returned lines carry the exact
// quantities sold; the total is priced from the documents read during the
// decrement cycle.
func (o *Orchestrator) consumeStock(ctx context.Context, picks map[string]int) ([]model.FoodLine, int64, error) {
	foodIDs := make([]string, 0, len(picks))
	for id := range picks {
		foodIDs = append(foodIDs, id)
	}
	sort.Strings(foodIDs)

	var done []model.FoodLine
	var total int64
	for _, foodID := range foodIDs {
		qty := picks[foodID]
		if qty <= 0 {
			continue
		}
		var lastErr error
		for attempt := 0; attempt < stockRetries; attempt++ {
			f, err := o.foods.Get(ctx, foodID)
			if err != nil {
				lastErr = err
				break
			}
			lastErr = o.foods.RecordSale(ctx, foodID, qty, f.Version)
			if lastErr == nil {
				total += f.Price * int64(qty)
				break
			}
			if !errors.Is(lastErr, repository.ErrStockConflict) {
				break
			}
		}
		if lastErr != nil {
			o.restoreStock(ctx, done)
			return nil, 0, lastErr
		}
		done = append(done, model.FoodLine{FoodID: foodID, Quantity: qty})
	}
	return done, total, nil
}

// reserveSeats conditionally reserves each seat in selection order. On
// failure it returns the seats reserved so far so the caller can release
// them.
func (o *Orchestrator) reserveSeats(ctx context.Context, seatIDs []string) ([]string, error) {
	var reserved []string
	for _, seatID := range seatIDs {
		seat, err := o.seats.Get(ctx, seatID)
		if err != nil {
			return reserved, err
		}
		if err := o.seats.Reserve(ctx, seatID, seat.Version); err != nil {
			return reserved, err
		}
		reserved = append(reserved, seatID)
	}
	return reserved, nil
}

// releaseSeats is the compensation for reserveSeats. Failures are logged
// and skipped so every seat gets an attempt.
func (o *Orchestrator) releaseSeats(ctx context.Context, seatIDs []string) {
	for _, seatID := range seatIDs {
		if err := o.seats.Release(ctx, seatID); err != nil {
			log.Printf("booking: compensate release seat %s: %v", seatID, err)
		}
	}
}

// restoreStock is the compensation for consumeStock.
func (o *Orchestrator) restoreStock(ctx context.Context, lines []model.FoodLine) {
	for _, line := range lines {
		if err := o.foods.RestoreSale(ctx, line.FoodID, line.Quantity); err != nil {
			log.Printf("booking: compensate restore food %s: %v", line.FoodID, err)
		}
	}
}

// publish emits the ticket issued event, best effort.
func (o *Orchestrator) publish(ctx context.Context, t *model.Ticket, st *model.Showtime) {
	if o.publisher == nil {
		return
	}
	ev := queue.TicketIssuedEvent{
		TicketID:        t.ID,
		UserID:          t.UserID,
		MovieID:         t.MovieID,
		MovieName:       st.MovieName,
		ScreeningRoomID: t.ScreeningRoomID,
		ShowtimeID:      t.ShowtimeID,
		Date:            st.Date,
		StartTime:       st.StartTime,
		SeatIDs:         t.SeatIDs,
		TotalPrice:      t.TotalPrice,
		IssuedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if err := o.publisher.PublishTicketIssued(ctx, ev); err != nil {
		log.Printf("booking: publish ticket issued: %v", err)
	}
}

// recordOutcome classifies a failed commit for the metrics counter.
func (o *Orchestrator) recordOutcome(err error, start time.Time) {
	outcome := "error"
	switch {
	case errors.Is(err, repository.ErrSeatConflict):
		outcome = "seat_conflict"
	case errors.Is(err, repository.ErrInsufficientStock), errors.Is(err, repository.ErrStockConflict):
		outcome = "stock_conflict"
	}
	monitoring.BookingCommits.WithLabelValues(outcome).Inc()
	monitoring.CommitDuration.Observe(time.Since(start).Seconds())
}
