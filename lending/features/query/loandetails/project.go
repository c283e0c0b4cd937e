package loandetails

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectLoanDetails folds the loan's history into its current state.
// The book is not joined here; callers that need it query bookdetails explicitly.
func ProjectLoanDetails(history core.DomainEvents, query Query, maxSequenceNumber uint) (LoanDetails, error) {
	loan, err := core.ProjectLoan(history, query.LoanID.String())
	if err != nil {
		return LoanDetails{}, err
	}

	return LoanDetails{Loan: loan, SequenceNumber: maxSequenceNumber}, nil
}

// BuildEventFilter selects all events of one loan.
func BuildEventFilter(loanID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
			core.LoanRenewalRequestedEventType,
			core.LoanRenewalApprovedEventType,
			core.LoanRenewalDeclinedEventType,
			core.ClaimTokenRecordedEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID.String())).
		Finalize()
}
