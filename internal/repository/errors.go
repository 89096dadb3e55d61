// Package repository implements data access for the booking domain on top
// of the generic document store. Each entity gets its own repository type
// constructed with a store handle; cross-cutting sentinel errors live here
// so handlers can translate them into HTTP status codes without importing
// store internals.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup yields no document.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatReserved is returned when a session tries to select a seat that
// already belongs to a committed ticket. Handlers translate this into an
// HTTP 409 response.
var ErrSeatReserved = errors.New("seat already reserved")

// ErrSeatConflict is returned when a commit-time reservation loses the
// race against another session: the seat's version moved between read and
// conditional write. Exactly one of two racing commits can win.
var ErrSeatConflict = errors.New("seat reserved by another booking")

// ErrCapacityShrink is returned when a room update would reduce capacity
// below the number of already provisioned seats. Shrinking is rejected
// because provisioned seats may be referenced by issued tickets.
var ErrCapacityShrink = errors.New("capacity below provisioned seats")

// ErrShowtimeNotFound is returned when a showtime lookup yields no document.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrScheduleConflict is returned when a new showtime's interval overlaps
// an existing one in the same room on the same date.
var ErrScheduleConflict = errors.New("showtime overlaps existing schedule")

// ErrFoodNotFound is returned when a food item lookup yields no document.
var ErrFoodNotFound = errors.New("food item not found")

// ErrInsufficientStock is returned when a sale asks for more units than
// the item has in stock at commit time.
var ErrInsufficientStock = errors.New("insufficient food stock")

// ErrStockConflict is returned when a conditional stock decrement loses a
// version race against a concurrent sale. Callers retry the read-decrement
// cycle a bounded number of times before surfacing the failure.
var ErrStockConflict = errors.New("food stock changed concurrently")

// ErrTicketNotFound is returned when a ticket lookup yields no document.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrRoomNotFound is returned when a screening room lookup yields no document.
var ErrRoomNotFound = errors.New("screening room not found")

// ErrMovieNotFound is returned when a movie lookup yields no document.
var ErrMovieNotFound = errors.New("movie not found")
