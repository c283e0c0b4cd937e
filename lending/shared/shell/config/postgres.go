package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for database/sql and sqlx
)

const (
	pgxMaxConnections   = int32(16)
	pgxMinConnections   = int32(2)
	sqlMaxOpenConns     = 50
	sqlMaxIdleConns     = 10
	poolMaxConnLifetime = time.Hour
	poolMaxConnIdleTime = 5 * time.Minute
	poolHealthCheck     = time.Minute
	poolConnectTimeout  = 5 * time.Second
	postgresDriverName  = "postgres"
)

// ErrConnectingToDatabaseFailed is returned when a pool cannot be created or pinged.
var ErrConnectingToDatabaseFailed = errors.New("connecting to database failed")

// PGXPoolConfig parses dsn into a pgxpool.Config with the pool limits used by lendingd.
func PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	poolConfig.MaxConns = pgxMaxConnections
	poolConfig.MinConns = pgxMinConnections
	poolConfig.MaxConnLifetime = poolMaxConnLifetime
	poolConfig.MaxConnIdleTime = poolMaxConnIdleTime
	poolConfig.HealthCheckPeriod = poolHealthCheck
	poolConfig.ConnConfig.ConnectTimeout = poolConnectTimeout

	return poolConfig, nil
}

// NewPGXPool creates and pings a pgx pool.
func NewPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	return pool, nil
}

// NewSQLDB opens and pings a *sql.DB using the lib/pq driver.
func NewSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(postgresDriverName, dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	configureSQLPool(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	return db, nil
}

// NewSQLXDB opens and pings a *sqlx.DB using the lib/pq driver.
func NewSQLXDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, postgresDriverName, dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	configureSQLPool(db.DB)

	return db, nil
}

func configureSQLPool(db *sql.DB) {
	db.SetMaxOpenConns(sqlMaxOpenConns)
	db.SetMaxIdleConns(sqlMaxIdleConns)
	db.SetConnMaxLifetime(poolMaxConnLifetime)
	db.SetConnMaxIdleTime(poolMaxConnIdleTime)
}
