package reservebook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of reserving a book.
//
// Business Rules:
//
//	GIVEN: A book with no available copies
//	WHEN: ReserveBook command is received
//	THEN: BookReserved event is generated, the reservation is Pending at the end of the queue
//	ERROR: ErrValidation if the requester is missing
//	ERROR: ErrNotFound if the book is not in the catalog
//	ERROR: ErrBookAvailable if a copy is on the shelf, borrow instead
//	ERROR: ErrDuplicateReservation if the requester already waits for this book
//	IDEMPOTENCY: If a reservation with this ReservationID exists, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	bookID := command.BookID.String()

	if command.RequesterID == "" {
		return core.ErrorDecision(fmt.Errorf("%w: requester is required", core.ErrValidation))
	}

	queue := core.ProjectReservationQueue(history, bookID)
	if _, ok := queue.Find(command.ReservationID.String()); ok {
		return core.IdempotentDecision()
	}

	book, err := core.ProjectBook(history, bookID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if book.HasCopiesAvailable() {
		return core.ErrorDecision(fmt.Errorf(
			"%w: book %s has %d copies available", core.ErrBookAvailable, bookID, book.AvailableCopies,
		))
	}

	reserved, err := queue.Enqueue(command.ReservationID.String(), command.RequesterID, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(reserved)
}

// BuildEventFilter selects everything that decides the availability and the reservation queue of one book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
			core.BookReservedEventType,
			core.ReservationNotifiedEventType,
			core.ReservationFulfilledEventType,
			core.ReservationCancelledEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
