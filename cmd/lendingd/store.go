package main

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell/config"
)

// openEventStore creates the configured event store. The returned func releases its connections.
func openEventStore(
	ctx context.Context,
	cfg config.Config,
	logger *oteladapters.SlogBridgeLogger,
	metrics shell.MetricsCollector,
	tracing shell.TracingCollector,
) (shell.EventStore, func(), error) {

	if cfg.Store == config.StoreMemory {
		logger.Warn("using the in-memory event store, events are lost on shutdown")

		es, err := memengine.NewEventStore(
			memengine.WithOperationTimeout(cfg.OperationTimeout),
			memengine.WithLogger(logger),
		)

		return es, func() {}, err
	}

	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.EventsTable),
		postgresengine.WithOperationTimeout(cfg.OperationTimeout),
		postgresengine.WithContextualLogger(logger),
		postgresengine.WithMetrics(metrics),
		postgresengine.WithTracing(tracing),
	}

	es, closeDB, err := openPostgresEventStore(ctx, cfg, options)
	if err != nil {
		if closeDB != nil {
			closeDB()
		}

		return nil, nil, err
	}

	if err := es.EnsureSchema(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	logger.Info("postgres event store ready", "adapter", cfg.DBAdapter, "table", cfg.EventsTable)

	return es, closeDB, nil
}

func openPostgresEventStore(
	ctx context.Context,
	cfg config.Config,
	options []postgresengine.Option,
) (*postgresengine.EventStore, func(), error) {

	switch cfg.DBAdapter {
	case config.AdapterSQLDB:
		db, err := config.NewSQLDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		es, err := postgresengine.NewEventStoreFromSQLDB(db, options...)

		return es, func() { _ = db.Close() }, err

	case config.AdapterSQLXDB:
		db, err := config.NewSQLXDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		es, err := postgresengine.NewEventStoreFromSQLX(db, options...)

		return es, func() { _ = db.Close() }, err

	case config.AdapterPGXPool:
		pool, err := config.NewPGXPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		if cfg.PostgresReplicaDSN == "" {
			es, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)

			return es, pool.Close, err
		}

		replica, err := config.NewPGXPool(ctx, cfg.PostgresReplicaDSN)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		es, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(pool, replica, options...)

		return es, func() { pool.Close(); replica.Close() }, err

	default:
		return nil, nil, fmt.Errorf("%w: unknown db adapter %q", config.ErrInvalidConfig, cfg.DBAdapter)
	}
}
