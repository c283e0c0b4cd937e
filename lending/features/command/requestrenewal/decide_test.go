package requestrenewal_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/requestrenewal"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

func Test_Decide_Success(t *testing.T) {
	loanID := uuid.New()

	testCases := []struct {
		name        string
		requesterID string
		isAdmin     bool
	}{
		{name: "borrower requests", requesterID: "alice", isAdmin: false},
		{name: "admin requests for borrower", requesterID: "librarian", isAdmin: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			history := givenOpenLoan(loanID)
			command := requestrenewal.BuildCommand(loanID, tc.requesterID, tc.isAdmin, fixture.Now)

			// act
			result := requestrenewal.Decide(history, command)

			// assert
			require.NoError(t, result.HasError(), "Should accept the renewal request")
			require.Len(t, result.Events, 1)

			requested, ok := result.Events[0].(core.LoanRenewalRequested)
			require.True(t, ok, "Should emit LoanRenewalRequested")
			assert.Equal(t, "alice", requested.BorrowerID)
			assert.Equal(t, tc.requesterID, requested.RequestedBy)
		})
	}
}

//nolint:funlen
func Test_Decide_BusinessErrors(t *testing.T) {
	loanID := uuid.New()

	testCases := []struct {
		name        string
		history     core.DomainEvents
		requesterID string
		isAdmin     bool
		expectedErr error
	}{
		{
			name:        "loan not found",
			history:     core.DomainEvents{},
			requesterID: "alice",
			expectedErr: core.ErrNotFound,
		},
		{
			name:        "another member requests",
			history:     givenOpenLoan(loanID),
			requesterID: "mallory",
			expectedErr: core.ErrForbidden,
		},
		{
			name: "renewal already requested",
			history: append(givenOpenLoan(loanID),
				core.BuildLoanRenewalRequested(loanID.String(), "book-1", "alice", "alice", fixture.Now.Add(-time.Hour))),
			requesterID: "alice",
			expectedErr: core.ErrInvalidState,
		},
		{
			name: "loan returned",
			history: append(givenOpenLoan(loanID),
				core.BuildLoanReturned(loanID.String(), "book-1", "alice", 0, 0, fixture.Now.Add(-time.Hour))),
			requesterID: "librarian",
			isAdmin:     true,
			expectedErr: core.ErrInvalidState,
		},
		{
			name: "forbidden is checked before state",
			history: append(givenOpenLoan(loanID),
				core.BuildLoanReturned(loanID.String(), "book-1", "alice", 0, 0, fixture.Now.Add(-time.Hour))),
			requesterID: "mallory",
			expectedErr: core.ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := requestrenewal.BuildCommand(loanID, tc.requesterID, tc.isAdmin, fixture.Now)

			// act
			result := requestrenewal.Decide(tc.history, command)

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expectedErr, "Should reject with the expected error")
			assert.False(t, result.HasEventsToAppend())
		})
	}
}

func givenOpenLoan(loanID uuid.UUID) core.DomainEvents {
	return core.DomainEvents{
		core.BuildLoanOpened(loanID.String(), "book-1", "alice", fixture.Now.Add(5*24*time.Hour), fixture.Now.Add(-2*24*time.Hour)),
	}
}
