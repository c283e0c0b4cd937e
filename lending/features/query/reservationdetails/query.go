package reservationdetails

import (
	"github.com/google/uuid"
)

const queryType = "ReservationDetails"

// Query asks for the current state of one reservation.
type Query struct {
	ReservationID uuid.UUID
}

// BuildQuery creates a new Query.
func BuildQuery(reservationID uuid.UUID) Query {
	return Query{ReservationID: reservationID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
