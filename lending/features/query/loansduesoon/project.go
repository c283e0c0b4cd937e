package loansduesoon

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectLoansDueSoon selects the loans that are not returned and due on or before the query horizon.
//
// Query Logic:
//
//	INCLUDES: Active and RenewalRequested loans, overdue ones too
//	EXCLUDES: Returned loans
//	ORDER: by due date, then by LoanID
func ProjectLoansDueSoon(history core.DomainEvents, query Query, maxSequenceNumber uint) LoansDueSoon {
	horizon := query.Horizon()
	dueSoon := make([]core.Loan, 0)

	for _, loan := range core.ProjectLoans(history) {
		if loan.IsReturned() || loan.DueDate.After(horizon) {
			continue
		}

		dueSoon = append(dueSoon, loan)
	}

	slices.SortFunc(dueSoon, func(a, b core.Loan) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}

		return strings.Compare(a.LoanID, b.LoanID)
	})

	return LoansDueSoon{
		Loans:          dueSoon,
		Count:          len(dueSoon),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects the lifecycle events of all loans.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
			core.LoanRenewalRequestedEventType,
			core.LoanRenewalApprovedEventType,
			core.LoanRenewalDeclinedEventType,
		).
		Finalize()
}
