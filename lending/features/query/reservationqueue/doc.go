// Package reservationqueue implements the read side of the reservation queue of a book,
// including peekOldestPending.
//
// Pending reservations are served by creation time; equal timestamps are broken by reservation ID.
package reservationqueue
