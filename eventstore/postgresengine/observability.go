package postgresengine

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

const (
	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsQueried        = "eventstore_events_queried"
	metricEventsAppended       = "eventstore_events_appended"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"

	spanNameQuery  = "eventstore.query"
	spanNameAppend = "eventstore.append"

	actionQuery  = "query"
	actionAppend = "append"

	statusSuccess  = "success"
	statusError    = "error"
	statusConflict = "concurrency_conflict"

	errorTypeBuildQuery    = "build_query"
	errorTypeDatabaseQuery = "database_query"
	errorTypeDatabaseExec  = "database_exec"
	errorTypeRowScan       = "row_scan"
	errorTypeTimeout       = "timeout"

	attrOperation    = "operation"
	attrStatus       = "status"
	attrErrorType    = "error_type"
	attrEventCount   = "event_count"
	attrEventType    = "event_type"
	attrMaxSequence  = "max_sequence"
	attrExpectedSeq  = "expected_sequence"
	attrDurationMS   = "duration_ms"
	attrConflictType = "conflict_type"

	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgSchemaStatementFailed    = "failed to apply schema statement"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSchemaEnsured            = "schema ensured"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventstore operation: "

	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrTable            = "table"
	logAttrEventType        = "event_type"
	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrExpectedEvents   = "expected_events"
	logAttrRowsAffected     = "rows_affected"
	logAttrExpectedSequence = "expected_sequence"
)

// observation tracks one Query or Append: its span, its start time and the metrics it reports.
type observation struct {
	es        *EventStore
	ctx       context.Context
	operation string
	span      eventstore.SpanContext
	start     time.Time
}

func (es *EventStore) observeQuery(ctx context.Context) (*observation, context.Context) {
	return es.observe(ctx, actionQuery, spanNameQuery, map[string]string{attrOperation: actionQuery})
}

func (es *EventStore) observeAppend(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (*observation, context.Context) {

	return es.observe(ctx, actionAppend, spanNameAppend, map[string]string{
		attrOperation:   actionAppend,
		attrEventCount:  strconv.Itoa(len(events)),
		attrEventType:   events[0].EventType,
		attrExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	})
}

func (es *EventStore) observe(
	ctx context.Context,
	operation string,
	spanName string,
	attrs map[string]string,
) (*observation, context.Context) {

	obs := &observation{es: es, operation: operation, start: time.Now()}

	if es.tracingCollector != nil {
		ctx, obs.span = es.tracingCollector.StartSpan(ctx, spanName, attrs)
	}

	obs.ctx = ctx

	return obs, ctx
}

func (o *observation) elapsed() time.Duration {
	return time.Since(o.start)
}

func (o *observation) querySucceeded(eventCount int, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := o.elapsed()

	o.recordDuration(metricQueryDuration, duration, statusSuccess)
	o.recordValue(metricEventsQueried, float64(eventCount))
	o.finishSpan(statusSuccess, map[string]string{
		attrEventCount:  strconv.Itoa(eventCount),
		attrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10),
		attrDurationMS:  formatMilliseconds(duration),
	})
	o.es.logOperation(o.ctx, logMsgQueryCompleted, logAttrEventCount, eventCount, logAttrDurationMS, toMilliseconds(duration))
}

func (o *observation) appendSucceeded(eventCount int) {
	duration := o.elapsed()

	o.recordDuration(metricAppendDuration, duration, statusSuccess)
	o.recordValue(metricEventsAppended, float64(eventCount))
	o.finishSpan(statusSuccess, map[string]string{
		attrEventCount: strconv.Itoa(eventCount),
		attrDurationMS: formatMilliseconds(duration),
	})
	o.es.logOperation(o.ctx, logMsgEventsAppended, logAttrEventCount, eventCount, logAttrDurationMS, toMilliseconds(duration))
}

func (o *observation) conflicted() {
	o.recordDuration(metricAppendDuration, o.elapsed(), statusConflict)
	o.incrementCounter(metricConcurrencyConflicts, map[string]string{
		attrOperation:    o.operation,
		attrConflictType: "concurrency",
	})
	o.finishSpan(statusError, map[string]string{attrErrorType: statusConflict})
}

func (o *observation) failed(errorType string) {
	metric := metricQueryDuration
	if o.operation == actionAppend {
		metric = metricAppendDuration
	}

	o.recordDuration(metric, o.elapsed(), statusError)
	o.incrementCounter(metricDatabaseErrors, map[string]string{
		attrOperation: o.operation,
		attrStatus:    statusError,
		attrErrorType: errorType,
	})
	o.finishSpan(statusError, map[string]string{attrErrorType: errorType})
}

func (o *observation) recordDuration(metric string, duration time.Duration, status string) {
	collector := o.es.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{attrOperation: o.operation, attrStatus: status}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

func (o *observation) recordValue(metric string, value float64) {
	collector := o.es.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{attrOperation: o.operation, attrStatus: statusSuccess}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(o.ctx, metric, value, labels)
		return
	}

	collector.RecordValue(metric, value, labels)
}

func (o *observation) incrementCounter(metric string, labels map[string]string) {
	collector := o.es.metricsCollector
	if collector == nil {
		return
	}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(o.ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

func (o *observation) finishSpan(status string, attrs map[string]string) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(status)
	o.es.tracingCollector.FinishSpan(o.span, status, attrs)
}

func (es *EventStore) logSQL(ctx context.Context, action string, sqlQuery string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	case es.logger != nil:
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

func (es *EventStore) logOperation(ctx context.Context, action string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case es.logger != nil:
		es.logger.Info(logMsgOperation+action, args...)
	}
}

func (es *EventStore) logWarn(ctx context.Context, msg string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.WarnContext(ctx, msg, args...)
	case es.logger != nil:
		es.logger.Warn(msg, args...)
	}
}

func (es *EventStore) logError(ctx context.Context, msg string, err error, args ...any) {
	args = append([]any{logAttrError, err.Error()}, args...)

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.ErrorContext(ctx, msg, args...)
	case es.logger != nil:
		es.logger.Error(msg, args...)
	}
}

// toMilliseconds rounds to three decimals.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e3) / 1e3
}

func formatMilliseconds(d time.Duration) string {
	return strconv.FormatFloat(toMilliseconds(d), 'f', 2, 64)
}
