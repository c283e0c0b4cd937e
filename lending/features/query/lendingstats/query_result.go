package lendingstats

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// BookBorrows is how often a book was borrowed over its whole history.
type BookBorrows struct {
	BookID  core.BookIDString
	Title   string
	Borrows int
}

// LendingStats are the dashboard figures. TopBorrowed is ordered by borrows descending, ties by BookID.
type LendingStats struct {
	TotalBooks     int
	ActiveLoans    int
	OverdueLoans   int
	TopBorrowed    []BookBorrows
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r LendingStats) GetSequenceNumber() uint {
	return r.SequenceNumber
}
