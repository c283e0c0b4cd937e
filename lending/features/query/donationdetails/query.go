package donationdetails

import (
	"github.com/google/uuid"
)

const queryType = "DonationDetails"

// Query asks for the current state of one donation.
type Query struct {
	DonationID uuid.UUID
}

// BuildQuery creates a new Query.
func BuildQuery(donationID uuid.UUID) Query {
	return Query{DonationID: donationID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
