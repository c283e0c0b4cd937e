package reservationqueue

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectReservationQueue folds the book's reservation events into its FIFO queue of pending reservations.
func ProjectReservationQueue(history core.DomainEvents, query Query, maxSequenceNumber uint) ReservationQueue {
	bookID := query.BookID.String()
	pending := core.ProjectReservationQueue(history, bookID).Pending()

	return ReservationQueue{
		BookID:         bookID,
		Pending:        pending,
		Count:          len(pending),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects the reservation events of one book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookReservedEventType,
			core.ReservationNotifiedEventType,
			core.ReservationFulfilledEventType,
			core.ReservationCancelledEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
