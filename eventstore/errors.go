package eventstore

import (
	"errors"
)

// Errors shared by all engines. Engines combine them with the underlying cause via errors.Join,
// so callers can always branch with errors.Is.
var (
	ErrConcurrencyConflict         = errors.New("concurrency conflict: events matching the filter were appended concurrently")
	ErrOperationTimeout            = errors.New("event store operation timed out")
	ErrEmptyEventsTableName        = errors.New("events table name must not be empty")
	ErrNilDatabaseConnection       = errors.New("database connection must not be nil")
	ErrNoEventsToAppend            = errors.New("at least one event is required for append")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrAppendingEventFailed        = errors.New("appending events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
)

// MaxSequenceNumberUint is the highest sequence number among the events matched by a Filter.
// It is the optimistic concurrency token passed from Query to Append.
type MaxSequenceNumberUint = uint
