package requestrenewal

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of requesting a loan renewal.
//
// Business Rules:
//
//	GIVEN: An active loan
//	WHEN: RequestRenewal command is received from its borrower or an administrator
//	THEN: LoanRenewalRequested event is generated
//	ERROR: ErrNotFound if the loan does not exist
//	ERROR: ErrForbidden if the requester is neither the borrower nor an administrator
//	ERROR: ErrInvalidState if the loan is not Active
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	loanID := command.LoanID.String()

	loan, err := core.ProjectLoan(history, loanID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if loan.BorrowerID != command.RequesterID && !command.RequesterIsAdmin {
		return core.ErrorDecision(fmt.Errorf(
			"%w: member %s may not renew loan %s", core.ErrForbidden, command.RequesterID, loanID,
		))
	}

	if loan.Status != core.LoanStatusActive {
		return core.ErrorDecision(fmt.Errorf(
			"%w: loan %s is %s, not %s", core.ErrInvalidState, loanID, loan.Status, core.LoanStatusActive,
		))
	}

	return core.SuccessDecision(
		core.BuildLoanRenewalRequested(loanID, loan.BookID, loan.BorrowerID, command.RequesterID, command.OccurredAt),
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
