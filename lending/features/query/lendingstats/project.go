package lendingstats

import (
	"cmp"
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectLendingStats counts books and loans as of query.Now.
//
// Query Logic:
//
//	ACTIVE: loans not returned, RenewalRequested included
//	OVERDUE: active loans whose (possibly renewed) due date is before Now
//	TOP: books by number of LoanOpened, ties by BookID, at most TopSize entries
func ProjectLendingStats(history core.DomainEvents, query Query, maxSequenceNumber uint) LendingStats {
	stats := LendingStats{SequenceNumber: maxSequenceNumber}
	titles := make(map[core.BookIDString]string)
	borrows := make(map[core.BookIDString]int)

	for _, event := range history {
		switch e := event.(type) {
		case core.BookAddedToCatalog:
			if _, ok := titles[e.BookID]; !ok {
				titles[e.BookID] = e.Title
				stats.TotalBooks++
			}
		case core.LoanOpened:
			borrows[e.BookID]++
		}
	}

	for _, loan := range core.ProjectLoans(history) {
		if loan.IsReturned() {
			continue
		}

		stats.ActiveLoans++

		if loan.DueDate.Before(query.Now) {
			stats.OverdueLoans++
		}
	}

	top := make([]BookBorrows, 0, len(borrows))
	for bookID, count := range borrows {
		top = append(top, BookBorrows{BookID: bookID, Title: titles[bookID], Borrows: count})
	}

	slices.SortFunc(top, func(a, b BookBorrows) int {
		if c := cmp.Compare(b.Borrows, a.Borrows); c != 0 {
			return c
		}

		return strings.Compare(a.BookID, b.BookID)
	})

	stats.TopBorrowed = top[:min(len(top), max(0, query.TopSize))]

	return stats
}

// BuildEventFilter selects the catalog and every event that changes a loan's status or due date.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
			core.LoanRenewalRequestedEventType,
			core.LoanRenewalApprovedEventType,
			core.LoanRenewalDeclinedEventType,
		).
		Finalize()
}
