package pointsbalance

const queryType = "PointsBalance"

// Query asks for the points balance of one member.
type Query struct {
	MemberID string
}

// BuildQuery creates a new Query.
func BuildQuery(memberID string) Query {
	return Query{MemberID: memberID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
