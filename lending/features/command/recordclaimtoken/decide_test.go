package recordclaimtoken_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/recordclaimtoken"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

func Test_Decide_Success_RecordsToken(t *testing.T) {
	// arrange
	loanID := uuid.New()

	// act
	result := recordclaimtoken.Decide(givenOpenLoan(loanID), recordclaimtoken.BuildCommand(loanID, "v4.local.abc", fixture.Now))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	recorded, ok := result.Events[0].(core.ClaimTokenRecorded)
	require.True(t, ok, "Should emit ClaimTokenRecorded")
	assert.Equal(t, "v4.local.abc", recorded.ClaimToken)
	assert.Equal(t, "alice", recorded.BorrowerID)
}

func Test_Decide_Idempotent_ForSameToken(t *testing.T) {
	// arrange
	loanID := uuid.New()
	history := append(givenOpenLoan(loanID),
		core.BuildClaimTokenRecorded(loanID.String(), "book-1", "alice", "v4.local.abc", fixture.Now.Add(-time.Minute)))

	// act
	result := recordclaimtoken.Decide(history, recordclaimtoken.BuildCommand(loanID, "v4.local.abc", fixture.Now))

	// assert
	assert.True(t, result.IsIdempotent(), "Should be idempotent for the same token")
}

func Test_Decide_BusinessErrors(t *testing.T) {
	loanID := uuid.New()

	testCases := []struct {
		name        string
		history     core.DomainEvents
		token       string
		expectedErr error
	}{
		{name: "empty token", history: givenOpenLoan(loanID), token: "", expectedErr: core.ErrValidation},
		{name: "loan not found", history: core.DomainEvents{}, token: "v4.local.abc", expectedErr: core.ErrNotFound},
		{
			name: "different token already recorded",
			history: append(givenOpenLoan(loanID),
				core.BuildClaimTokenRecorded(loanID.String(), "book-1", "alice", "v4.local.old", fixture.Now.Add(-time.Minute))),
			token:       "v4.local.abc",
			expectedErr: core.ErrInvalidState,
		},
		{
			name: "loan returned",
			history: append(givenOpenLoan(loanID),
				core.BuildLoanReturned(loanID.String(), "book-1", "alice", 0, 0, fixture.Now.Add(-time.Minute))),
			token:       "v4.local.abc",
			expectedErr: core.ErrInvalidState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := recordclaimtoken.Decide(tc.history, recordclaimtoken.BuildCommand(loanID, tc.token, fixture.Now))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expectedErr, "Should reject with the expected error")
		})
	}
}

func givenOpenLoan(loanID uuid.UUID) core.DomainEvents {
	return core.DomainEvents{
		core.BuildLoanOpened(loanID.String(), "book-1", "alice", fixture.Now.Add(7*24*time.Hour), fixture.Now.Add(-time.Hour)),
	}
}
