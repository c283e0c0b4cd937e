package reservationqueue

import (
	"github.com/google/uuid"
)

const queryType = "ReservationQueue"

// Query asks for the reservation queue of one book.
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
