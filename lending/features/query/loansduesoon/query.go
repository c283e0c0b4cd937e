package loansduesoon

import (
	"time"
)

const queryType = "LoansDueSoon"

// Query asks for all open loans due within WithinDays days from Now. Overdue loans are included.
type Query struct {
	WithinDays int
	Now        time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(withinDays int, now time.Time) Query {
	return Query{
		WithinDays: withinDays,
		Now:        now.UTC(),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

// Horizon is the latest due date still reported.
func (q Query) Horizon() time.Time {
	return q.Now.Add(time.Duration(q.WithinDays) * 24 * time.Hour)
}
