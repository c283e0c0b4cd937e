package cancelreservation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

const bookID = "book-1"

func Test_Decide_Success(t *testing.T) {
	reservationID := uuid.New()

	testCases := []struct {
		name        string
		history     core.DomainEvents
		requesterID string
		isAdmin     bool
	}{
		{name: "owner cancels pending", history: givenReservation(reservationID), requesterID: "bob"},
		{name: "admin cancels pending", history: givenReservation(reservationID), requesterID: "librarian", isAdmin: true},
		{
			name: "owner cancels notified",
			history: append(givenReservation(reservationID),
				core.BuildReservationNotified(reservationID.String(), bookID, "bob", "loan-1", fixture.Now.Add(-time.Minute))),
			requesterID: "bob",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := cancelreservation.BuildCommand(reservationID, tc.requesterID, tc.isAdmin, fixture.Now)

			// act
			result := cancelreservation.Decide(tc.history, command)

			// assert
			require.NoError(t, result.HasError(), "Should accept the cancellation")
			require.Len(t, result.Events, 1)

			cancelled, ok := result.Events[0].(core.ReservationCancelled)
			require.True(t, ok, "Should emit ReservationCancelled")
			assert.Equal(t, "bob", cancelled.RequesterID)
		})
	}
}

func Test_Decide_Idempotent_WhenAlreadyCancelled(t *testing.T) {
	// arrange
	reservationID := uuid.New()
	history := append(givenReservation(reservationID),
		core.BuildReservationCancelled(reservationID.String(), bookID, "bob", fixture.Now.Add(-time.Minute)))

	// act
	result := cancelreservation.Decide(history, cancelreservation.BuildCommand(reservationID, "bob", false, fixture.Now))

	// assert
	assert.True(t, result.IsIdempotent(), "Should be idempotent")
}

func Test_Decide_BusinessErrors(t *testing.T) {
	reservationID := uuid.New()

	testCases := []struct {
		name        string
		history     core.DomainEvents
		requesterID string
		expectedErr error
	}{
		{name: "reservation not found", history: core.DomainEvents{}, requesterID: "bob", expectedErr: core.ErrNotFound},
		{name: "another member cancels", history: givenReservation(reservationID), requesterID: "mallory", expectedErr: core.ErrForbidden},
		{
			name: "reservation fulfilled",
			history: append(givenReservation(reservationID),
				core.BuildReservationNotified(reservationID.String(), bookID, "bob", "loan-1", fixture.Now.Add(-2*time.Minute)),
				core.BuildReservationFulfilled(reservationID.String(), bookID, "bob", "loan-2", fixture.Now.Add(-time.Minute))),
			requesterID: "bob",
			expectedErr: core.ErrInvalidState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := cancelreservation.BuildCommand(reservationID, tc.requesterID, false, fixture.Now)

			// act
			result := cancelreservation.Decide(tc.history, command)

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expectedErr, "Should reject with the expected error")
			assert.False(t, result.HasEventsToAppend())
		})
	}
}

func givenReservation(reservationID uuid.UUID) core.DomainEvents {
	return core.DomainEvents{
		core.BuildBookReserved(reservationID.String(), bookID, "bob", fixture.Now.Add(-time.Hour)),
	}
}
