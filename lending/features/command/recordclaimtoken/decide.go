package recordclaimtoken

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of recording a claim token. A token is set once.
//
// Business Rules:
//
//	GIVEN: A loan that is not returned and has no claim token
//	WHEN: RecordClaimToken command is received
//	THEN: ClaimTokenRecorded event is generated
//	ERROR: ErrValidation if the token is empty
//	ERROR: ErrNotFound if the loan does not exist
//	ERROR: ErrInvalidState if the loan already carries a different token or was returned
//	IDEMPOTENCY: If the loan already carries this token, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	loanID := command.LoanID.String()

	if command.ClaimToken == "" {
		return core.ErrorDecision(fmt.Errorf("%w: claim token is required", core.ErrValidation))
	}

	loan, err := core.ProjectLoan(history, loanID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if loan.ClaimToken == command.ClaimToken {
		return core.IdempotentDecision()
	}

	if loan.ClaimToken != "" {
		return core.ErrorDecision(fmt.Errorf("%w: loan %s already has a claim token", core.ErrInvalidState, loanID))
	}

	if loan.IsReturned() {
		return core.ErrorDecision(fmt.Errorf("%w: loan %s is returned", core.ErrInvalidState, loanID))
	}

	return core.SuccessDecision(
		core.BuildClaimTokenRecorded(loanID, loan.BookID, loan.BorrowerID, command.ClaimToken, command.OccurredAt),
	)
}

// BuildEventFilter selects the events of one loan that decide whether a token may be recorded.
func BuildEventFilter(loanID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
			core.ClaimTokenRecordedEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID.String())).
		Finalize()
}

// BuildTokenLookupFilter selects the ClaimTokenRecorded event carrying token.
func BuildTokenLookupFilter(claimToken string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ClaimTokenRecordedEventType).
		AndAnyPredicateOf(eventstore.P("ClaimToken", claimToken)).
		Finalize()
}
