package borrowerloans

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectBorrowerLoans folds the member's loan events into their loan history, newest borrow first.
func ProjectBorrowerLoans(history core.DomainEvents, query Query, maxSequenceNumber uint) BorrowerLoans {
	loans := slices.DeleteFunc(core.ProjectLoans(history), func(l core.Loan) bool {
		return l.BorrowerID != query.BorrowerID
	})

	slices.SortFunc(loans, func(a, b core.Loan) int {
		if c := b.BorrowDate.Compare(a.BorrowDate); c != 0 {
			return c
		}

		return strings.Compare(b.LoanID, a.LoanID)
	})

	return BorrowerLoans{
		BorrowerID:     query.BorrowerID,
		Loans:          loans,
		Count:          len(loans),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects all loan events of one member.
func BuildEventFilter(borrowerID string) eventstore.Filter {
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
		AndAnyPredicateOf(eventstore.P("BorrowerID", borrowerID)).
		Finalize()
}
