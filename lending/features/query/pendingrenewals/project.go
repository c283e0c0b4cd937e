package pendingrenewals

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectPendingRenewals selects the loans waiting for an administrator's decision.
func ProjectPendingRenewals(history core.DomainEvents, maxSequenceNumber uint) PendingRenewals {
	pending := slices.DeleteFunc(core.ProjectLoans(history), func(l core.Loan) bool {
		return l.Status != core.LoanStatusRenewalRequested
	})

	slices.SortFunc(pending, func(a, b core.Loan) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}

		return strings.Compare(a.LoanID, b.LoanID)
	})

	return PendingRenewals{
		Loans:          pending,
		Count:          len(pending),
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
