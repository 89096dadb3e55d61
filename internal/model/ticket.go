package model

// FoodLine is one concession line item on a ticket: a food id and how many
// units were purchased.  The unit price is not stored; the ticket's total
// already includes it and later price edits must not alter issued tickets.
type FoodLine struct {
	FoodID   string `json:"foodId"`
	Quantity int    `json:"quantity"`
}

// Ticket is the durable record of a completed booking.  It references
// seats, showtime and food by id and snapshots the computed total price at
// commit time; it is immutable after creation.
//
// TotalPrice = showtime.TicketPrice * len(SeatIDs)
//            + sum(food.Price * line.Quantity).
type Ticket struct {
	ID              string     `json:"id"`
	MovieID         string     `json:"movieId"`
	ScreeningRoomID string     `json:"screeningRoomId"`
	ShowtimeID      string     `json:"showtimeId"`
	SeatIDs         []string   `json:"seatIds"`
	UserID          string     `json:"userId"`
	TotalPrice      int64      `json:"totalPrice"`
	SelectedFood    []FoodLine `json:"selectedFood"`
}
