package postgresengine

import (
	"context"

	"github.com/lib/pq"
)

// schemaStatements returns the idempotent DDL for the events table and its indexes.
// The GIN index with jsonb_path_ops serves the payload containment predicates.
func (es *EventStore) schemaStatements() []string {
	table := pq.QuoteIdentifier(es.eventTableName)

	return []string{
		`CREATE TABLE IF NOT EXISTS ` + table + ` (
			sequence_number BIGSERIAL PRIMARY KEY,
			occurred_at TIMESTAMPTZ NOT NULL,
			event_type TEXT NOT NULL,
			payload JSONB NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb
		)`,
		`CREATE INDEX IF NOT EXISTS ` + pq.QuoteIdentifier(es.eventTableName+"_event_type_idx") +
			` ON ` + table + ` (event_type)`,
		`CREATE INDEX IF NOT EXISTS ` + pq.QuoteIdentifier(es.eventTableName+"_payload_idx") +
			` ON ` + table + ` USING gin (payload jsonb_path_ops)`,
	}
}

// EnsureSchema creates the events table and indexes if they do not exist yet.
func (es *EventStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, es.operationTimeout)
	defer cancel()

	for _, statement := range es.schemaStatements() {
		if err := es.db.Exec(ctx, statement); err != nil {
			es.logError(ctx, logMsgSchemaStatementFailed, err, logAttrQuery, statement)

			return wrapDBError(ErrEnsuringSchemaFailed, err)
		}
	}

	es.logOperation(ctx, logMsgSchemaEnsured, logAttrTable, es.eventTableName)

	return nil
}
