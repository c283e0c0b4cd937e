package adapters

import (
	"context"
	"database/sql"
)

// DBAdapter is everything the engine needs from a connection pool.
//
// Query honors the eventstore consistency level in ctx where a replica is available.
// ExecSerializable runs a single statement in its own SERIALIZABLE transaction
// and returns the affected row count after a successful commit.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) error
	ExecSerializable(ctx context.Context, query string) (int64, error)
}

// DBRows is the row iterator returned by Query.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

var serializableTxOptions = &sql.TxOptions{Isolation: sql.LevelSerializable}

// stdRows adapts *sql.Rows, used by both the database/sql and the sqlx adapter.
type stdRows struct {
	rows *sql.Rows
}

func (r *stdRows) Next() bool {
	return r.rows.Next()
}

func (r *stdRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *stdRows) Err() error {
	return r.rows.Err()
}

func (r *stdRows) Close() error {
	return r.rows.Close()
}

// stdTx is the subset of *sql.Tx and *sqlx.Tx used for the append transaction.
type stdTx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Commit() error
	Rollback() error
}

func execInStdTx(ctx context.Context, tx stdTx, query string) (int64, error) {
	defer func() { _ = tx.Rollback() }() // no-op after commit

	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return rowsAffected, nil
}
