package returnloan

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of returning a loan.
//
// Business Rules:
//
//	GIVEN: An open loan
//	WHEN: ReturnLoan command is received
//	THEN: LoanReturned event is generated with days late and fine
//	AND: ReservationNotified for the oldest pending reservation of the book, if any
//	ERROR: ErrNotFound if the loan does not exist
//	ERROR: ErrAlreadyReturned if the loan was returned before
//	ERROR: ErrInvariantViolation if the book would have more copies available than it owns
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	loanID := command.LoanID.String()

	loan, err := core.ProjectLoan(history, loanID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if loan.IsReturned() {
		return core.ErrorDecision(fmt.Errorf("%w: loan %s", core.ErrAlreadyReturned, loanID))
	}

	book, err := core.ProjectBook(history, loan.BookID)
	if errors.Is(err, core.ErrNotFound) {
		return core.ErrorDecision(fmt.Errorf("%w: loan %s references unknown book %s", core.ErrInvariantViolation, loanID, loan.BookID))
	}

	if err != nil {
		return core.ErrorDecision(err)
	}

	if _, err = book.AdjustAvailability(+1); err != nil {
		return core.ErrorDecision(err)
	}

	daysLate, fine := core.CalculateFine(loan.DueDate, command.OccurredAt, command.FinePerDay)
	loanReturned := core.BuildLoanReturned(loanID, loan.BookID, loan.BorrowerID, daysLate, fine, command.OccurredAt)

	queue := core.ProjectReservationQueue(history, loan.BookID)

	oldest, ok := queue.PeekOldestPending()
	if !ok {
		return core.SuccessDecision(loanReturned)
	}

	notified, err := queue.MarkNotified(oldest.ReservationID, loanID, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(loanReturned, notified)
}

// BuildLookupFilter selects the LoanOpened event of one loan, which names the book it belongs to.
func BuildLookupFilter(loanID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.LoanOpenedEventType).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID.String())).
		Finalize()
}

// BuildEventFilter selects the loan's own events and everything that decides the book's availability
// and reservation queue.
func BuildEventFilter(loanID uuid.UUID, bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
			core.LoanRenewalRequestedEventType,
			core.LoanRenewalApprovedEventType,
			core.LoanRenewalDeclinedEventType,
			core.ClaimTokenRecordedEventType,
			core.BookReservedEventType,
			core.ReservationNotifiedEventType,
			core.ReservationFulfilledEventType,
			core.ReservationCancelledEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("LoanID", loanID.String()),
			eventstore.P("BookID", bookID),
		).
		Finalize()
}
