package postgresengine

import (
	"regexp"
	"time"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

const (
	defaultEventTableName   = "events"
	defaultOperationTimeout = 5 * time.Second
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Option configures an EventStore.
type Option func(*EventStore) error

// WithTableName sets the events table. Only lower case identifiers are accepted.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		if !tableNamePattern.MatchString(tableName) {
			return ErrInvalidEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets a logger. Debug: SQL with timing, Info: operation results and conflicts,
// Warn: cleanup issues, Error: failed operations.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger

		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger

		return nil
	}
}

// WithMetrics sets the collector for durations, event counts, conflicts and database errors.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector

		return nil
	}
}

// WithTracing sets the collector for query and append spans.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector

		return nil
	}
}

// WithOperationTimeout bounds every Query and Append. When it expires the operation fails with
// eventstore.ErrOperationTimeout. A non-positive value is rejected.
func WithOperationTimeout(timeout time.Duration) Option {
	return func(es *EventStore) error {
		if timeout <= 0 {
			return ErrInvalidOperationTimeout
		}

		es.operationTimeout = timeout

		return nil
	}
}
