package addbook_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

func Test_Decide(t *testing.T) {
	bookID := uuid.New()
	existing := core.DomainEvents{core.BuildBookAddedToCatalog(bookID.String(), "Dune", "Frank Herbert", "SF", 3, fixture.Now)}

	testCases := []struct {
		name           string
		history        core.DomainEvents
		title          string
		totalCopies    int
		expectedErr    error
		expectedEvents int
		idempotent     bool
	}{
		{name: "new book", history: core.DomainEvents{}, title: "Dune", totalCopies: 3, expectedEvents: 1},
		{name: "book without copies", history: core.DomainEvents{}, title: "Dune", totalCopies: 0, expectedEvents: 1},
		{name: "book exists", history: existing, title: "Dune", totalCopies: 3, idempotent: true},
		{name: "empty title", history: core.DomainEvents{}, title: "", totalCopies: 3, expectedErr: core.ErrValidation},
		{name: "negative copies", history: core.DomainEvents{}, title: "Dune", totalCopies: -1, expectedErr: core.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := addbook.BuildCommand(bookID, tc.title, "Frank Herbert", "SF", tc.totalCopies, fixture.Now)

			// act
			result := addbook.Decide(tc.history, command)

			// assert
			if tc.expectedErr != nil {
				assert.ErrorIs(t, result.HasError(), tc.expectedErr)
				return
			}

			require.NoError(t, result.HasError())
			assert.Equal(t, tc.idempotent, result.IsIdempotent())
			assert.Len(t, result.Events, tc.expectedEvents)
		})
	}
}
