// Package postgresengine stores the event log in a single PostgreSQL table.
//
// Events are selected with jsonb containment on the payload, so any top-level
// payload field can act as a consistency boundary key. Appends are guarded by a
// conditional INSERT that runs in a SERIALIZABLE transaction: it only inserts if
// the boundary's highest sequence number is still the one the caller read.
//
// Three connection types are supported (pgxpool, database/sql with lib/pq, sqlx):
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("events"),
//		postgresengine.WithOperationTimeout(3*time.Second),
//		postgresengine.WithContextualLogger(logger),
//	)
//	_ = store.EnsureSchema(ctx)
//
// Every operation is bounded by the operation timeout and fails with
// eventstore.ErrOperationTimeout when it expires.
package postgresengine
