// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published when a booking commits successfully. It
// carries enough denormalized detail for downstream consumers to log or
// notify without querying the document store.
type TicketIssuedEvent struct {
	TicketID        string   `json:"ticket_id"`
	UserID          string   `json:"user_id"`
	MovieID         string   `json:"movie_id"`
	MovieName       string   `json:"movie_name"`
	ScreeningRoomID string   `json:"screening_room_id"`
	ShowtimeID      string   `json:"showtime_id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	SeatIDs         []string `json:"seat_ids"`
	TotalPrice      int64    `json:"total_price"`
	IssuedAt        string   `json:"issued_at"`
}
