package postgresengine

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect
	"github.com/doug-martin/goqu/v9/exp"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

const (
	dialectPostgres   = "postgres"
	colSequenceNumber = "sequence_number"
	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	cteContext        = "context"
	cteVals           = "vals"
	aliasMaxSeq       = "max_seq"
	castText          = "?::text"
	castTimestamp     = "?::timestamptz"
	castJsonb         = "?::jsonb"
	payloadContains   = "payload @> ?::jsonb"
)

var predicateJSON = jsoniter.ConfigCompatibleWithStandardLibrary

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	where, err := whereClause(filter)
	if err != nil {
		return "", err
	}

	stmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Where(where).
		Order(goqu.I(colSequenceNumber).Asc())

	sqlQuery, _, err := stmt.ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

// buildAppendQuery renders
//
//	WITH context AS (SELECT MAX(sequence_number) AS max_seq FROM events WHERE <filter>),
//	     vals AS (SELECT ... UNION ALL SELECT ...)
//	INSERT INTO events (...) SELECT vals.* FROM context, vals WHERE COALESCE(max_seq, 0) = <expected>
//
// The insert affects zero rows if the boundary moved since the caller's Query.
func (es *EventStore) buildAppendQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	if len(events) == 0 {
		return "", eventstore.ErrNoEventsToAppend
	}

	where, err := whereClause(filter)
	if err != nil {
		return "", err
	}

	dialect := goqu.Dialect(dialectPostgres)

	contextStmt := dialect.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq)).
		Where(where)

	var valsStmt *goqu.SelectDataset
	for _, event := range events {
		row := dialect.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt.UTC()).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valsStmt == nil {
			valsStmt = row
			continue
		}

		valsStmt = valsStmt.UnionAll(row)
	}

	insertStmt := dialect.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, contextStmt).
		With(cteVals, valsStmt).
		FromQuery(
			dialect.From(cteContext, cteVals).
				Select(
					goqu.T(cteVals).Col(colEventType),
					goqu.T(cteVals).Col(colOccurredAt),
					goqu.T(cteVals).Col(colPayload),
					goqu.T(cteVals).Col(colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, err := insertStmt.ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

// whereClause turns the filter items into an OR of (eventTypes AND predicates).
// Predicates use jsonb containment, the values are passed as literals and escaped by goqu.
func whereClause(filter eventstore.Filter) (exp.ExpressionList, error) {
	items := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		eventTypes := make([]exp.Expression, 0, len(item.EventTypes()))
		for _, eventType := range item.EventTypes() {
			eventTypes = append(eventTypes, goqu.C(colEventType).Eq(eventType))
		}

		predicates := make([]exp.Expression, 0, len(item.Predicates()))
		for _, predicate := range item.Predicates() {
			containment, err := predicateJSON.MarshalToString(map[string]string{predicate.Key(): predicate.Val()})
			if err != nil {
				return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
			}

			predicates = append(predicates, goqu.L(payloadContains, containment))
		}

		predicateList := goqu.Or(predicates...)
		if item.AllPredicatesMustMatch() {
			predicateList = goqu.And(predicates...)
		}

		items = append(items, goqu.And(goqu.Or(eventTypes...), predicateList))
	}

	return goqu.Or(items...), nil
}
