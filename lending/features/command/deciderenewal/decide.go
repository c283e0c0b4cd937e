package deciderenewal

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of deciding a renewal request.
//
// Business Rules:
//
//	GIVEN: A loan in RenewalRequested
//	WHEN: DecideRenewal command is received
//	THEN: LoanRenewalApproved with the due date extended by one loan period, or LoanRenewalDeclined
//	ERROR: ErrValidation if the decision is neither approve nor decline
//	ERROR: ErrNotFound if the loan does not exist
//	ERROR: ErrInvalidState if no renewal is pending
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	loanID := command.LoanID.String()

	if command.Decision != Approve && command.Decision != Decline {
		return core.ErrorDecision(fmt.Errorf("%w: unknown renewal decision %q", core.ErrValidation, command.Decision))
	}

	loan, err := core.ProjectLoan(history, loanID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if loan.Status != core.LoanStatusRenewalRequested {
		return core.ErrorDecision(fmt.Errorf(
			"%w: loan %s is %s, not %s", core.ErrInvalidState, loanID, loan.Status, core.LoanStatusRenewalRequested,
		))
	}

	if command.Decision == Decline {
		return core.SuccessDecision(
			core.BuildLoanRenewalDeclined(loanID, loan.BookID, loan.BorrowerID, command.OccurredAt),
		)
	}

	return core.SuccessDecision(
		core.BuildLoanRenewalApproved(
			loanID, loan.BookID, loan.BorrowerID, loan.DueDate.Add(command.LoanPeriod), command.OccurredAt),
	)
}

// BuildEventFilter selects the lifecycle events of one loan.
func BuildEventFilter(loanID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
			core.LoanRenewalRequestedEventType,
			core.LoanRenewalApprovedEventType,
			core.LoanRenewalDeclinedEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID.String())).
		Finalize()
}
