package borrowbook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of borrowing a book copy.
//
// Business Rules:
//
//	GIVEN: A book with at least one available copy
//	WHEN: BorrowBook command is received
//	THEN: LoanOpened event is generated
//	AND: ReservationFulfilled if the borrower was notified about this book
//	ERROR: ErrValidation if the borrower is missing
//	ERROR: ErrNotFound if the book is not in the catalog
//	ERROR: ErrNoCopiesAvailable if all copies are lent out
//	IDEMPOTENCY: If a loan with this LoanID was already opened, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	bookID := command.BookID.String()
	loanID := command.LoanID.String()

	if command.BorrowerID == "" {
		return core.ErrorDecision(fmt.Errorf("%w: borrower is required", core.ErrValidation))
	}

	if _, err := core.ProjectLoan(history, loanID); err == nil {
		return core.IdempotentDecision()
	}

	book, err := core.ProjectBook(history, bookID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if !book.HasCopiesAvailable() {
		return core.ErrorDecision(fmt.Errorf(
			"%w: all %d copies of book %s are lent out", core.ErrNoCopiesAvailable, book.TotalCopies, bookID,
		))
	}

	if _, err = book.AdjustAvailability(-1); err != nil {
		return core.ErrorDecision(err)
	}

	loanOpened := core.BuildLoanOpened(loanID, bookID, command.BorrowerID, command.DueDate, command.OccurredAt)

	queue := core.ProjectReservationQueue(history, bookID)
	if reservation, ok := queue.NotifiedFor(command.BorrowerID); ok {
		return core.SuccessDecision(
			loanOpened,
			core.BuildReservationFulfilled(
				reservation.ReservationID, bookID, command.BorrowerID, loanID, command.OccurredAt),
		)
	}

	return core.SuccessDecision(loanOpened)
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
