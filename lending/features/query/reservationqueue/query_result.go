package reservationqueue

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ReservationQueue lists the pending reservations of one book in the order they will be served.
type ReservationQueue struct {
	BookID         core.BookIDString
	Pending        []core.Reservation
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r ReservationQueue) GetSequenceNumber() uint {
	return r.SequenceNumber
}

// PeekOldestPending returns the reservation that the next returned copy goes to.
func (r ReservationQueue) PeekOldestPending() (core.Reservation, bool) {
	if len(r.Pending) == 0 {
		return core.Reservation{}, false
	}

	return r.Pending[0], true
}
