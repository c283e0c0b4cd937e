package lendingstats

import (
	"time"
)

const queryType = "LendingStats"

// DefaultTopBorrowedSize is the number of most borrowed books reported.
const DefaultTopBorrowedSize = 5

// Query asks for the lending figures as of Now. Open loans due before Now count as overdue.
type Query struct {
	Now     time.Time
	TopSize int
}

// BuildQuery creates a new Query reporting the DefaultTopBorrowedSize most borrowed books.
func BuildQuery(now time.Time) Query {
	return Query{
		Now:     now.UTC(),
		TopSize: DefaultTopBorrowedSize,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
