package borrowerloans

const queryType = "BorrowerLoans"

// Query asks for the loan history of one member.
type Query struct {
	BorrowerID string
}

// BuildQuery creates a new Query.
func BuildQuery(borrowerID string) Query {
	return Query{BorrowerID: borrowerID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
