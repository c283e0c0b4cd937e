package pendingdonations

const queryType = "PendingDonations"

// Query asks for all donations waiting for a decision.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
