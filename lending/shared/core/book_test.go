package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

func Test_Book_AdjustAvailability(t *testing.T) {
	book := core.Book{BookID: "b-1", TotalCopies: 2, AvailableCopies: 1}

	testCases := []struct {
		name          string
		delta         int
		wantAvailable int
		wantErr       bool
	}{
		{name: "decrement to zero", delta: -1, wantAvailable: 0},
		{name: "increment to total", delta: +1, wantAvailable: 2},
		{name: "no change", delta: 0, wantAvailable: 1},
		{name: "below zero", delta: -2, wantAvailable: 1, wantErr: true},
		{name: "above total", delta: +2, wantAvailable: 1, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			adjusted, err := book.AdjustAvailability(tc.delta)

			// assert
			if tc.wantErr {
				assert.ErrorIs(t, err, core.ErrInvariantViolation, "Should report an invariant violation")
			} else {
				assert.NoError(t, err, "Should adjust availability")
			}

			assert.Equal(t, tc.wantAvailable, adjusted.AvailableCopies, "Should have expected available copies")
			assert.Equal(t, 1, book.AvailableCopies, "Should not mutate the receiver")
		})
	}
}

func Test_ProjectBook_FoldsLoansIntoAvailability(t *testing.T) {
	// arrange
	now := time.Now()
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog("b-1", "Dune", "Herbert", "SciFi", 3, now),
		core.BuildBookAddedToCatalog("b-2", "Emma", "Austen", "Classic", 1, now),
		core.BuildLoanOpened("l-1", "b-1", "m-1", now.Add(7*24*time.Hour), now),
		core.BuildLoanOpened("l-2", "b-1", "m-2", now.Add(7*24*time.Hour), now),
		core.BuildLoanOpened("l-3", "b-2", "m-2", now.Add(7*24*time.Hour), now),
		core.BuildLoanReturned("l-1", "b-1", "m-1", 0, 0, now),
	}

	// act
	book, err := core.ProjectBook(history, "b-1")

	// assert
	require.NoError(t, err, "Should project the book")
	assert.Equal(t, "Dune", book.Title, "Should carry the title")
	assert.Equal(t, 3, book.TotalCopies, "Should carry total copies")
	assert.Equal(t, 2, book.AvailableCopies, "Should subtract open loans only")
}

func Test_ProjectBook_Error_WhenBookWasNeverAdded(t *testing.T) {
	// act
	_, err := core.ProjectBook(core.DomainEvents{}, "missing")

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound, "Should report a missing book")
}

func Test_ProjectBook_Error_WhenHistoryOverdrawsCopies(t *testing.T) {
	// arrange
	now := time.Now()
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog("b-1", "Dune", "Herbert", "SciFi", 1, now),
		core.BuildLoanOpened("l-1", "b-1", "m-1", now, now),
		core.BuildLoanOpened("l-2", "b-1", "m-2", now, now),
	}

	// act
	_, err := core.ProjectBook(history, "b-1")

	// assert
	assert.ErrorIs(t, err, core.ErrInvariantViolation, "Should surface corrupted history")
}
