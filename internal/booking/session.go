// Package booking implements the interactive reservation workflow: a
// wizard-style session that walks a customer from room choice to a
// committed ticket. Sessions live in process memory guarded by a mutex;
// seat holds are additionally mirrored into Redis so a restarted instance
// can clear selections orphaned by its predecessor.
package booking

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cinetick/booking/internal/monitoring"
	"github.com/cinetick/booking/internal/repository"
)

// State identifies the current step of a booking session. Steps advance
// strictly forward; revisiting an earlier step resets everything chosen
// downstream of it.
type State string

const (
	StateRoomSelection       State = "room_selection"
	StateDateSelection       State = "date_selection"
	StateTimeSelection       State = "time_selection"
	StateSeatSelection       State = "seat_selection"
	StateConcessionSelection State = "concession_selection"
	StateReview              State = "review"
	StateCompleted           State = "completed"
)

// DefaultSessionTTL is how long an idle session may live before the
// janitor reaps it and releases its seat selections.
const DefaultSessionTTL = 10 * time.Minute

// janitorInterval controls how often expired sessions are swept.
const janitorInterval = time.Minute

var (
	// ErrSessionNotFound is returned for unknown or already reaped sessions.
	ErrSessionNotFound = errors.New("booking session not found")

	// ErrInvalidState is returned when an operation is attempted out of
	// order, e.g. picking seats before a showtime is chosen.
	ErrInvalidState = errors.New("operation not valid in current session state")

	// ErrNoSeatsSelected is returned when a commit or review is attempted
	// with an empty seat selection.
	ErrNoSeatsSelected = errors.New("no seats selected")

	// ErrAdminPurchase is returned when an administrator account tries to
	// buy tickets. Admins manage inventory, they do not consume it.
	ErrAdminPurchase = errors.New("administrator accounts cannot purchase tickets")

	// ErrSeatNotInSession is returned when deselecting a seat the session
	// never selected.
	ErrSeatNotInSession = errors.New("seat not selected in this session")
)

// Session is one customer's in-progress booking. All fields are owned by
// the Manager's mutex; handlers only ever see copies.
type Session struct {
	ID         string
	UserID     string
	MovieID    string
	State      State
	RoomID     string
	Date       string
	ShowtimeID string
	SeatIDs    []string       // selection order preserved
	Food       map[string]int // food id -> quantity
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// snapshot returns a defensive copy safe to hand outside the lock.
func (s *Session) snapshot() Session {
	cp := *s
	cp.SeatIDs = append([]string(nil), s.SeatIDs...)
	cp.Food = make(map[string]int, len(s.Food))
	for k, v := range s.Food {
		cp.Food[k] = v
	}
	return cp
}

// Manager owns all live booking sessions of this instance.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	seats     *repository.SeatRepo
	showtimes *repository.ShowtimeRepo
	holds     *Holds
	ttl       time.Duration

	stop chan struct{}
	once sync.Once
}

// NewManager constructs a session manager. holds may be built on a nil
// Redis client; the mirror then degrades to a no-op.
func NewManager(seats *repository.SeatRepo, showtimes *repository.ShowtimeRepo, holds *Holds, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		seats:     seats,
		showtimes: showtimes,
		holds:     holds,
		ttl:       ttl,
		stop:      make(chan struct{}),
	}
}

// Start opens a new session for a user wanting to book the given movie.
func (m *Manager) Start(ctx context.Context, userID, movieID string) (Session, error) {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		MovieID:   movieID,
		State:     StateRoomSelection,
		Food:      make(map[string]int),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	monitoring.SessionsStarted.Inc()
	return s.snapshot(), nil
}

// Get returns a copy of a live session owned by the given user. Expired
// sessions report ErrSessionNotFound even before the janitor runs.
func (m *Manager) Get(ctx context.Context, sessionID, userID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	return s.snapshot(), nil
}

// liveLocked fetches a session, enforcing ownership and expiry. Caller
// holds m.mu.
func (m *Manager) liveLocked(sessionID, userID string) (*Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// touchLocked extends the session lifetime after successful activity.
func (m *Manager) touchLocked(s *Session) {
	s.ExpiresAt = time.Now().UTC().Add(m.ttl)
}

// ChooseRoom records the screening room and resets every downstream
// choice: date, showtime, seats and food.
func (m *Manager) ChooseRoom(ctx context.Context, sessionID, userID, roomID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if s.State == StateCompleted {
		return Session{}, ErrInvalidState
	}
	if err := m.releaseSeatsLocked(ctx, s); err != nil {
		return Session{}, err
	}
	s.RoomID = roomID
	s.Date = ""
	s.ShowtimeID = ""
	s.Food = make(map[string]int)
	s.State = StateDateSelection
	m.touchLocked(s)
	return s.snapshot(), nil
}

// ChooseDate records the date and resets showtime, seats and food.
func (m *Manager) ChooseDate(ctx context.Context, sessionID, userID, date string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if s.RoomID == "" || s.State == StateCompleted {
		return Session{}, ErrInvalidState
	}
	if err := repository.ValidateDate(date); err != nil {
		return Session{}, err
	}
	if err := m.releaseSeatsLocked(ctx, s); err != nil {
		return Session{}, err
	}
	s.Date = date
	s.ShowtimeID = ""
	s.Food = make(map[string]int)
	s.State = StateTimeSelection
	m.touchLocked(s)
	return s.snapshot(), nil
}

// ChooseShowtime records the showtime and resets seats and food. The
// showtime must belong to the session's movie, room and date.
func (m *Manager) ChooseShowtime(ctx context.Context, sessionID, userID, showtimeID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if s.RoomID == "" || s.Date == "" || s.State == StateCompleted {
		return Session{}, ErrInvalidState
	}
	st, err := m.showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		return Session{}, err
	}
	if st.MovieID != s.MovieID || st.ScreeningRoomID != s.RoomID || st.Date != s.Date {
		return Session{}, ErrInvalidState
	}
	if err := m.releaseSeatsLocked(ctx, s); err != nil {
		return Session{}, err
	}
	s.ShowtimeID = showtimeID
	s.Food = make(map[string]int)
	s.State = StateSeatSelection
	m.touchLocked(s)
	return s.snapshot(), nil
}

// SelectSeat adds a seat to the session, marking it selected in the
// store. Selecting an already reserved seat fails with ErrSeatReserved;
// selecting a seat twice is a no-op.
func (m *Manager) SelectSeat(ctx context.Context, sessionID, userID, seatID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if s.ShowtimeID == "" || s.State == StateCompleted {
		return Session{}, ErrInvalidState
	}
	seat, err := m.seats.Get(ctx, seatID)
	if err != nil {
		return Session{}, err
	}
	if seat.ScreeningRoomID != s.RoomID {
		return Session{}, repository.ErrSeatNotFound
	}
	for _, id := range s.SeatIDs {
		if id == seatID {
			m.touchLocked(s)
			return s.snapshot(), nil
		}
	}
	if err := m.seats.SetSelected(ctx, seatID, true); err != nil {
		monitoring.SeatSelections.WithLabelValues("rejected").Inc()
		return Session{}, err
	}
	monitoring.SeatSelections.WithLabelValues("selected").Inc()
	s.SeatIDs = append(s.SeatIDs, seatID)
	s.State = StateSeatSelection
	m.holds.Mirror(ctx, s.ID, s.SeatIDs, m.ttl)
	m.touchLocked(s)
	return s.snapshot(), nil
}

// DeselectSeat removes a seat from the session and clears its selected
// marker in the store.
func (m *Manager) DeselectSeat(ctx context.Context, sessionID, userID, seatID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if s.State == StateCompleted {
		return Session{}, ErrInvalidState
	}
	idx := -1
	for i, id := range s.SeatIDs {
		if id == seatID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Session{}, ErrSeatNotInSession
	}
	if err := m.seats.SetSelected(ctx, seatID, false); err != nil {
		return Session{}, err
	}
	monitoring.SeatSelections.WithLabelValues("deselected").Inc()
	s.SeatIDs = append(s.SeatIDs[:idx], s.SeatIDs[idx+1:]...)
	m.holds.Mirror(ctx, s.ID, s.SeatIDs, m.ttl)
	m.touchLocked(s)
	return s.snapshot(), nil
}

// SetFood stores a concession quantity already clamped by the selector.
// A zero quantity removes the line.
func (m *Manager) SetFood(ctx context.Context, sessionID, userID, foodID string, qty int) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if len(s.SeatIDs) == 0 || s.State == StateCompleted {
		return Session{}, ErrInvalidState
	}
	if qty <= 0 {
		delete(s.Food, foodID)
	} else {
		s.Food[foodID] = qty
	}
	s.State = StateConcessionSelection
	m.touchLocked(s)
	return s.snapshot(), nil
}

// EnterReview transitions the session to its final pre-commit step.
func (m *Manager) EnterReview(ctx context.Context, sessionID, userID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if s.State == StateCompleted {
		return Session{}, ErrInvalidState
	}
	if len(s.SeatIDs) == 0 {
		return Session{}, ErrNoSeatsSelected
	}
	s.State = StateReview
	m.touchLocked(s)
	return s.snapshot(), nil
}

// Complete marks the session finished after a successful commit and
// drops it from the live map. The seats now belong to a ticket, so no
// selections are released.
func (m *Manager) Complete(ctx context.Context, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		s.State = StateCompleted
		delete(m.sessions, sessionID)
	}
	m.holds.Clear(ctx, sessionID)
}

// Cancel abandons a session, clearing every seat it had selected.
func (m *Manager) Cancel(ctx context.Context, sessionID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return ErrSessionNotFound
	}
	if err := m.releaseSeatsLocked(ctx, s); err != nil {
		return err
	}
	delete(m.sessions, sessionID)
	return nil
}

// releaseSeatsLocked clears the selected marker of every seat held by the
// session and empties its selection. Caller holds m.mu.
func (m *Manager) releaseSeatsLocked(ctx context.Context, s *Session) error {
	for _, seatID := range s.SeatIDs {
		if err := m.seats.SetSelected(ctx, seatID, false); err != nil && !errors.Is(err, repository.ErrSeatNotFound) {
			return err
		}
	}
	s.SeatIDs = nil
	m.holds.Clear(ctx, s.ID)
	return nil
}

// RunJanitor sweeps expired sessions until Stop is called. Reaped
// sessions get their seat selections released, matching a customer who
// walked away mid-booking.
func (m *Manager) RunJanitor(ctx context.Context) {
	t := time.NewTicker(janitorInterval)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ctx.Done():
			return
		case <-t.C:
			m.sweep(ctx)
		}
	}
}

// Stop terminates the janitor loop. Safe to call more than once.
func (m *Manager) Stop() {
	m.once.Do(func() { close(m.stop) })
}

// sweep releases and removes every expired session.
func (m *Manager) sweep(ctx context.Context) {
	now := time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			if err := m.releaseSeatsLocked(ctx, s); err != nil {
				log.Printf("booking: releasing seats of expired session %s: %v", id, err)
				continue
			}
			delete(m.sessions, id)
			monitoring.SessionsExpired.Inc()
		}
	}
}

// Live reports how many sessions are currently tracked. Used by tests
// and the health endpoint.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
