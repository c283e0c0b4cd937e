package loandetails

import (
	"github.com/google/uuid"
)

const queryType = "LoanDetails"

// Query asks for the current state of one loan.
type Query struct {
	LoanID uuid.UUID
}

// BuildQuery creates a new Query.
func BuildQuery(loanID uuid.UUID) Query {
	return Query{LoanID: loanID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
