package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

func Test_DecisionResult(t *testing.T) {
	now := time.Now()
	opened := core.BuildLoanOpened("l-1", "b-1", "m-1", now, now)
	fulfilled := core.BuildReservationFulfilled("r-1", "b-1", "m-1", "l-1", now)

	t.Run("idempotent", func(t *testing.T) {
		result := core.IdempotentDecision()

		assert.True(t, result.IsIdempotent(), "Should be idempotent")
		assert.False(t, result.HasEventsToAppend(), "Should have nothing to append")
		assert.NoError(t, result.HasError(), "Should have no error")
	})

	t.Run("success with additional events", func(t *testing.T) {
		result := core.SuccessDecision(opened, fulfilled)

		assert.True(t, result.HasEventsToAppend(), "Should have events to append")
		assert.Equal(t, core.DomainEvents{opened, fulfilled}, result.Events, "Should keep event order")
		assert.NoError(t, result.HasError(), "Should have no error")
	})

	t.Run("error", func(t *testing.T) {
		result := core.ErrorDecision(core.ErrNoCopiesAvailable)

		assert.False(t, result.HasEventsToAppend(), "Should not append anything")
		assert.ErrorIs(t, result.HasError(), core.ErrNoCopiesAvailable, "Should expose the error")
	})
}
