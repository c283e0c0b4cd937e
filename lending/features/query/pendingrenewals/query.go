package pendingrenewals

const queryType = "PendingRenewals"

// Query asks for all loans waiting for a renewal decision.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
