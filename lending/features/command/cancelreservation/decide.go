package cancelreservation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of cancelling a reservation.
//
// Business Rules:
//
//	GIVEN: A Pending or Notified reservation
//	WHEN: CancelReservation command is received from its requester or an administrator
//	THEN: ReservationCancelled event is generated
//	ERROR: ErrNotFound if the reservation does not exist
//	ERROR: ErrForbidden if the requester is neither the owner nor an administrator
//	ERROR: ErrInvalidState if the reservation was already fulfilled
//	IDEMPOTENCY: If the reservation is already cancelled, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	reservationID := command.ReservationID.String()

	bookID, ok := bookOf(history, reservationID)
	if !ok {
		return core.ErrorDecision(fmt.Errorf("%w: reservation %s", core.ErrNotFound, reservationID))
	}

	queue := core.ProjectReservationQueue(history, bookID)

	reservation, _ := queue.Find(reservationID)
	if reservation.RequesterID != command.RequesterID && !command.RequesterIsAdmin {
		return core.ErrorDecision(fmt.Errorf(
			"%w: member %s may not cancel reservation %s", core.ErrForbidden, command.RequesterID, reservationID,
		))
	}

	cancelled, changed, err := queue.Cancel(reservationID, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if !changed {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(cancelled)
}

// BuildLookupFilter selects the BookReserved event of one reservation, which names its book.
func BuildLookupFilter(reservationID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookReservedEventType).
		AndAnyPredicateOf(eventstore.P("ReservationID", reservationID.String())).
		Finalize()
}

// BuildEventFilter selects the reservation queue of one book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookReservedEventType,
			core.ReservationNotifiedEventType,
			core.ReservationFulfilledEventType,
			core.ReservationCancelledEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

func bookOf(history core.DomainEvents, reservationID core.ReservationIDString) (core.BookIDString, bool) {
	for _, event := range history {
		if reserved, ok := event.(core.BookReserved); ok && reserved.ReservationID == reservationID {
			return reserved.BookID, true
		}
	}

	return "", false
}
