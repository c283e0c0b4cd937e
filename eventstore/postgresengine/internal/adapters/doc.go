// Package adapters hides the differences between pgxpool, database/sql and sqlx
// behind the small DBAdapter interface the Postgres engine needs.
package adapters
