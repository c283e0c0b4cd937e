package reservationdetails

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectReservationDetails folds the reservation's events through the queue of its book.
func ProjectReservationDetails(history core.DomainEvents, query Query, maxSequenceNumber uint) (ReservationDetails, error) {
	reservationID := query.ReservationID.String()

	var bookID core.BookIDString

	for _, event := range history {
		if e, ok := event.(core.BookReserved); ok && e.ReservationID == reservationID {
			bookID = e.BookID

			break
		}
	}

	reservation, found := core.ProjectReservationQueue(history, bookID).Find(reservationID)
	if bookID == "" || !found {
		return ReservationDetails{}, fmt.Errorf("%w: reservation %s", core.ErrNotFound, reservationID)
	}

	return ReservationDetails{Reservation: reservation, SequenceNumber: maxSequenceNumber}, nil
}

// BuildEventFilter selects all events of one reservation.
func BuildEventFilter(reservationID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookReservedEventType,
			core.ReservationNotifiedEventType,
			core.ReservationFulfilledEventType,
			core.ReservationCancelledEventType,
		).
		AndAnyPredicateOf(eventstore.P("ReservationID", reservationID.String())).
		Finalize()
}
