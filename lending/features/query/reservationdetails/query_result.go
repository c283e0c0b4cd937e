package reservationdetails

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ReservationDetails is the current state of one reservation.
type ReservationDetails struct {
	core.Reservation
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r ReservationDetails) GetSequenceNumber() uint {
	return r.SequenceNumber
}
