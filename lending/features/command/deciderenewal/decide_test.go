package deciderenewal_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/deciderenewal"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

var dueDate = fixture.Now.Add(5 * 24 * time.Hour)

func Test_Decide_Approve_ExtendsDueDateByLoanPeriod(t *testing.T) {
	// arrange
	loanID := uuid.New()
	command := deciderenewal.BuildCommand(loanID, deciderenewal.Approve, core.DefaultLoanPeriod, fixture.Now)

	// act
	result := deciderenewal.Decide(givenRenewalRequested(loanID), command)

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	approved, ok := result.Events[0].(core.LoanRenewalApproved)
	require.True(t, ok, "Should emit LoanRenewalApproved")
	assert.Equal(t, dueDate.Add(core.DefaultLoanPeriod), approved.NewDueDate, "Should extend from the old due date")
}

func Test_Decide_Decline_KeepsDueDate(t *testing.T) {
	// arrange
	loanID := uuid.New()
	history := givenRenewalRequested(loanID)
	command := deciderenewal.BuildCommand(loanID, deciderenewal.Decline, core.DefaultLoanPeriod, fixture.Now)

	// act
	result := deciderenewal.Decide(history, command)

	// assert
	require.NoError(t, result.HasError())

	_, ok := result.Events[0].(core.LoanRenewalDeclined)
	require.True(t, ok, "Should emit LoanRenewalDeclined")

	loan, err := core.ProjectLoan(append(history, result.Events...), loanID.String())
	require.NoError(t, err)
	assert.Equal(t, core.LoanStatusActive, loan.Status, "Should move the loan back to Active")
	assert.Equal(t, dueDate, loan.DueDate, "Should keep the due date")
}

func Test_Decide_BusinessErrors(t *testing.T) {
	loanID := uuid.New()

	testCases := []struct {
		name        string
		history     core.DomainEvents
		decision    deciderenewal.Decision
		expectedErr error
	}{
		{name: "unknown decision", history: givenRenewalRequested(loanID), decision: "maybe", expectedErr: core.ErrValidation},
		{name: "loan not found", history: core.DomainEvents{}, decision: deciderenewal.Approve, expectedErr: core.ErrNotFound},
		{name: "no renewal pending", history: givenRenewalRequested(loanID)[:1], decision: deciderenewal.Approve, expectedErr: core.ErrInvalidState},
		{
			name: "renewal already decided",
			history: append(givenRenewalRequested(loanID),
				core.BuildLoanRenewalDeclined(loanID.String(), "book-1", "alice", fixture.Now.Add(-time.Minute))),
			decision:    deciderenewal.Decline,
			expectedErr: core.ErrInvalidState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := deciderenewal.BuildCommand(loanID, tc.decision, core.DefaultLoanPeriod, fixture.Now)

			// act
			result := deciderenewal.Decide(tc.history, command)

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expectedErr, "Should reject with the expected error")
			assert.False(t, result.HasEventsToAppend())
		})
	}
}

func givenRenewalRequested(loanID uuid.UUID) core.DomainEvents {
	return core.DomainEvents{
		core.BuildLoanOpened(loanID.String(), "book-1", "alice", dueDate, fixture.Now.Add(-2*24*time.Hour)),
		core.BuildLoanRenewalRequested(loanID.String(), "book-1", "alice", "alice", fixture.Now.Add(-time.Hour)),
	}
}
