package eventstore

import "context"

// ConsistencyLevel tells an engine whether a Query must see every committed Append.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. Deciding a command needs it.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows a lagging replica, e.g. for the catalog, loan history or the leaderboard.
	EventualConsistency
)

var consistencyLevelNames = map[ConsistencyLevel]string{
	StrongConsistency:   "strong",
	EventualConsistency: "eventual",
}

type consistencyLevelKey struct{}

// WithStrongConsistency marks ctx so that Query reads from the primary.
func WithStrongConsistency(ctx context.Context) context.Context {
	return withConsistencyLevel(ctx, StrongConsistency)
}

// WithEventualConsistency marks ctx so that Query may read from a replica.
func WithEventualConsistency(ctx context.Context) context.Context {
	return withConsistencyLevel(ctx, EventualConsistency)
}

// GetConsistencyLevel returns the level carried by ctx. Unmarked contexts read strongly.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	level, ok := ctx.Value(consistencyLevelKey{}).(ConsistencyLevel)
	if !ok {
		return StrongConsistency
	}

	return level
}

func (c ConsistencyLevel) String() string {
	if name, ok := consistencyLevelNames[c]; ok {
		return name
	}

	return "unknown"
}

func withConsistencyLevel(ctx context.Context, level ConsistencyLevel) context.Context {
	return context.WithValue(ctx, consistencyLevelKey{}, level)
}
