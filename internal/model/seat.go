package model

import "fmt"

// Seat describes one bookable position in a screening room.  Seats are
// provisioned in bulk when a room is created, one per capacity unit, and
// carry two independent flags with very different lifetimes.
//
// Fields:
//  ID              – deterministic document id "{roomID}-Seat-{n}".
//  ScreeningRoomID – room that owns this seat.
//  Name            – display label, the seat number as a string ("1".."N").
//  Selected        – transient marker: the seat is being held by an active
//                    booking session.  Cleared on cancel or expiry.
//  Reserved        – durable marker: the seat belongs to a committed ticket.
//                    Set exactly once at commit time, never unset by the
//                    normal flow.
//  Version         – monotonic counter bumped on every write; commit-time
//                    reservation is conditional on the expected version.
type Seat struct {
	ID              string `json:"id"`
	ScreeningRoomID string `json:"screeningRoomId"`
	Name            string `json:"name"`
	Selected        bool   `json:"selected"`
	Reserved        bool   `json:"reserved"`
	Version         uint64 `json:"version"`
}

// SeatID builds the deterministic document id for seat n of a room.
func SeatID(roomID string, n int) string {
	return fmt.Sprintf("%s-Seat-%d", roomID, n)
}
