package lendingstats_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/lendingstats"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

const day = 24 * time.Hour

func Test_ProjectLendingStats_CountsActiveAndOverdueLoans(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog("book-1", "Dune", "Frank Herbert", "SF", 3, fixture.Now.Add(-30*day)),
		core.BuildBookAddedToCatalog("book-2", "Emma", "Jane Austen", "Donated", 1, fixture.Now.Add(-30*day)),
		core.BuildLoanOpened("loan-1", "book-1", "alice", fixture.Now.Add(-day), fixture.Now.Add(-8*day)),
		core.BuildLoanOpened("loan-2", "book-1", "bob", fixture.Now.Add(-day), fixture.Now.Add(-8*day)),
		core.BuildLoanRenewalRequested("loan-2", "book-1", "bob", "bob", fixture.Now.Add(-2*day)),
		core.BuildLoanRenewalApproved("loan-2", "book-1", "bob", fixture.Now.Add(6*day), fixture.Now.Add(-2*day)),
		core.BuildLoanOpened("loan-3", "book-1", "carol", fixture.Now.Add(-2*day), fixture.Now.Add(-9*day)),
		core.BuildLoanReturned("loan-3", "book-1", "carol", 0, 0, fixture.Now.Add(-3*day)),
		core.BuildLoanOpened("loan-4", "book-2", "dave", fixture.Now.Add(3*day), fixture.Now.Add(-4*day)),
		core.BuildLoanRenewalRequested("loan-4", "book-2", "dave", "dave", fixture.Now.Add(-day)),
	}

	// act
	result := lendingstats.ProjectLendingStats(history, lendingstats.BuildQuery(fixture.Now), 10)

	// assert
	assert.Equal(t, 2, result.TotalBooks)
	assert.Equal(t, 3, result.ActiveLoans, "Should count every loan not returned")
	assert.Equal(t, 1, result.OverdueLoans, "Should use the renewed due date")
	assert.Equal(t, uint(10), result.GetSequenceNumber())
}

func Test_ProjectLendingStats_TopBorrowedBooks(t *testing.T) {
	// arrange
	history := core.DomainEvents{}
	borrowsPerBook := map[string]int{"book-a": 1, "book-b": 4, "book-c": 2, "book-d": 2, "book-e": 3, "book-f": 1}

	for bookID, borrows := range borrowsPerBook {
		history = append(history, core.BuildBookAddedToCatalog(bookID, "Title "+bookID, "Author", "SF", borrows, fixture.Now.Add(-30*day)))

		for i := range borrows {
			loanID := bookID + "-loan-" + strconv.Itoa(i)
			history = append(history, core.BuildLoanOpened(loanID, bookID, "alice", fixture.Now.Add(day), fixture.Now.Add(-day)))
		}
	}

	// act
	result := lendingstats.ProjectLendingStats(history, lendingstats.BuildQuery(fixture.Now), 0)

	// assert
	require.Len(t, result.TopBorrowed, lendingstats.DefaultTopBorrowedSize, "Should report at most five books")

	ranked := make([]string, 0, len(result.TopBorrowed))
	for _, entry := range result.TopBorrowed {
		ranked = append(ranked, entry.BookID)
	}

	assert.Equal(t, []string{"book-b", "book-e", "book-c", "book-d", "book-a"}, ranked, "Should rank by borrows, ties by book ID")
	assert.Equal(t, 4, result.TopBorrowed[0].Borrows)
	assert.Equal(t, "Title book-b", result.TopBorrowed[0].Title)
}

func Test_ProjectLendingStats_EmptyHistory(t *testing.T) {
	// act
	result := lendingstats.ProjectLendingStats(core.DomainEvents{}, lendingstats.BuildQuery(fixture.Now), 0)

	// assert
	assert.Zero(t, result.TotalBooks)
	assert.Zero(t, result.ActiveLoans)
	assert.Empty(t, result.TopBorrowed)
}
