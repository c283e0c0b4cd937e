package leaderboard

const queryType = "Leaderboard"

// Query asks for the Size members with the most points.
type Query struct {
	Size int
}

// BuildQuery creates a new Query.
func BuildQuery(size int) Query {
	return Query{Size: size}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
