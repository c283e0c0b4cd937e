package postgresengine

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

var (
	ErrInvalidEventsTableName  = errors.New("events table name must be a lower case sql identifier")
	ErrInvalidOperationTimeout = errors.New("operation timeout must be positive")
	ErrEnsuringSchemaFailed    = errors.New("ensuring events schema failed")
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateQueryCanceled        = "57014"
)

// sqlState extracts the SQLSTATE from pgx and lib/pq errors.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// classifyDBError maps driver errors onto the shared eventstore errors.
// It returns nil if err is not a timeout or a serialization conflict.
func classifyDBError(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return eventstore.ErrOperationTimeout
	}

	switch sqlState(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return eventstore.ErrConcurrencyConflict
	case sqlStateQueryCanceled:
		return eventstore.ErrOperationTimeout
	default:
		return nil
	}
}
