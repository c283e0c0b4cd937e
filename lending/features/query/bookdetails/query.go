package bookdetails

import (
	"github.com/google/uuid"
)

const queryType = "BookDetails"

// Query asks for the catalog entry of one book with its current availability.
type Query struct {
	BookID uuid.UUID
}

// BuildQuery creates a new Query.
func BuildQuery(bookID uuid.UUID) Query {
	return Query{BookID: bookID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
