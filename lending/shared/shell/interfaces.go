package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

// QueriesEvents is the read half of an event store.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is what command handlers need: query a consistency boundary, then append to it
// conditioned on nothing else having been appended to that boundary in between.
// Both postgresengine.EventStore and memengine.EventStore implement it.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Command is implemented by all command types. CommandType is used as the metric and log label.
type Command interface {
	CommandType() string
}

// Query is implemented by all query types. QueryType is used as the metric and log label.
type Query interface {
	QueryType() string
}

// QueryResult is implemented by all projections.
// GetSequenceNumber returns the highest sequence number the projection has seen.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CommandHandler processes one command type and reports retry metadata alongside the error.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// QueryHandler processes one query type into its projection.
type QueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
