package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/postgresengine/internal/adapters"
)

// EventStore is the Postgres implementation of the event log.
// It is safe for concurrent use, all state lives in the database.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	operationTimeout time.Duration
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

type queryResultRow struct {
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	sequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates an EventStore on top of a pgx pool.
func NewEventStoreFromPGXPool(pool *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if pool == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(pool), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates an EventStore that sends queries made
// with eventstore.WithEventualConsistency to the replica pool.
func NewEventStoreFromPGXPoolAndReplica(pool *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if pool == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(pool, replica), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on top of database/sql, typically with the lib/pq driver.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on top of sqlx.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:               db,
		eventTableName:   defaultEventTableName,
		operationTimeout: defaultOperationTimeout,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns all events matching filter in sequence order, together with the highest
// sequence number among them (0 if none match). Pass that number to Append.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, cancel := context.WithTimeout(ctx, es.operationTimeout)
	defer cancel()

	obs, ctx := es.observeQuery(ctx)

	sqlQuery, err := es.buildSelectQuery(filter)
	if err != nil {
		es.logError(ctx, logMsgBuildSelectQueryFailed, err)
		obs.failed(errorTypeBuildQuery)

		return nil, 0, err
	}

	rows, err := es.db.Query(ctx, sqlQuery)
	es.logSQL(ctx, actionQuery, sqlQuery, obs.elapsed())
	if err != nil {
		es.logError(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		obs.failed(errorTypeFor(err, errorTypeDatabaseQuery))

		return nil, 0, wrapDBError(eventstore.ErrQueryingEventsFailed, err)
	}
	defer es.closeRows(ctx, rows)

	events, maxSequenceNumber, err := es.scanEvents(ctx, rows)
	if err != nil {
		obs.failed(errorTypeFor(err, errorTypeRowScan))

		return nil, 0, err
	}

	obs.querySucceeded(len(events), maxSequenceNumber)

	return events, maxSequenceNumber, nil
}

func (es *EventStore) scanEvents(ctx context.Context, rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	var row queryResultRow
	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		if err := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata, &row.sequenceNumber); err != nil {
			es.logError(ctx, logMsgScanRowFailed, err)

			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, err := eventstore.BuildStorableEvent(row.eventType, row.occurredAt.UTC(), row.payload, row.metadata)
		if err != nil {
			es.logError(ctx, logMsgBuildStorableEventFailed, err, logAttrEventType, row.eventType)

			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, err)
		}

		event.SequenceNumber = row.sequenceNumber
		events = append(events, event)
		maxSequenceNumber = row.sequenceNumber
	}

	if err := rows.Err(); err != nil {
		es.logError(ctx, logMsgScanRowFailed, err)

		return nil, 0, wrapDBError(eventstore.ErrScanningDBRowFailed, err)
	}

	return events, maxSequenceNumber, nil
}

func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

// Append stores all given events atomically, but only if the highest sequence number among
// the events matching filter still equals expectedMaxSequenceNumber. Use the same filter as
// for the Query the decision was based on.
//
// The insert runs as one statement in a SERIALIZABLE transaction, so two writers that
// read the same boundary can never both succeed. The loser gets eventstore.ErrConcurrencyConflict.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	ctx, cancel := context.WithTimeout(ctx, es.operationTimeout)
	defer cancel()

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	obs, ctx := es.observeAppend(ctx, allEvents, expectedMaxSequenceNumber)

	sqlQuery, err := es.buildAppendQuery(allEvents, filter, expectedMaxSequenceNumber)
	if err != nil {
		es.logError(ctx, logMsgBuildInsertQueryFailed, err, logAttrEventCount, len(allEvents))
		obs.failed(errorTypeBuildQuery)

		return err
	}

	rowsAffected, err := es.db.ExecSerializable(ctx, sqlQuery)
	es.logSQL(ctx, actionAppend, sqlQuery, obs.elapsed())
	if err != nil {
		if errors.Is(classifyDBError(err), eventstore.ErrConcurrencyConflict) {
			es.logOperation(ctx, logMsgConcurrencyConflict, logAttrExpectedSequence, expectedMaxSequenceNumber, logAttrError, err.Error())
			obs.conflicted()

			return errors.Join(eventstore.ErrConcurrencyConflict, err)
		}

		es.logError(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		obs.failed(errorTypeFor(err, errorTypeDatabaseExec))

		return wrapDBError(eventstore.ErrAppendingEventFailed, err)
	}

	if rowsAffected < int64(len(allEvents)) {
		es.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(allEvents),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		obs.conflicted()

		return eventstore.ErrConcurrencyConflict
	}

	obs.appendSucceeded(len(allEvents))

	return nil
}

// wrapDBError keeps the driver error and adds the matching eventstore sentinels.
func wrapDBError(base error, err error) error {
	if classified := classifyDBError(err); classified != nil {
		return errors.Join(classified, base, err)
	}

	return errors.Join(base, err)
}

func errorTypeFor(err error, fallback string) string {
	if errors.Is(classifyDBError(err), eventstore.ErrOperationTimeout) {
		return errorTypeTimeout
	}

	return fallback
}
