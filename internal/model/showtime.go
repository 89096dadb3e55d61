package model

// Showtime is one scheduled screening of a movie in one room.  Date and
// clock fields are stored as strings in the legacy document format
// ("D/M/YYYY" and "H:MM"); interval arithmetic is done on canonical
// time.Time values inside the scheduler, never on these strings.
//
// Invariant: for a fixed (ScreeningRoomID, Date) no two showtimes may have
// overlapping [StartTime, EndTime) intervals.  EndTime is derived at
// creation from the movie duration plus the cleaning buffer.
type Showtime struct {
	ID              string `json:"id"`
	ScreeningRoomID string `json:"screeningRoomId"`
	MovieID         string `json:"movieId"`
	MovieName       string `json:"movieName"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	TicketPrice     int64  `json:"ticketPrice"`
}
