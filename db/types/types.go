package types

import (
	"context"
	"database/sql"
	"time"
)

// Querier exposes only methods for running SQL queries, and some helper functions.
type Querier interface {
	NewContext() context.Context
	TimeNow() time.Time
	ExecContext(ctx context.Context, sql string, arguments ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxQuerier is a Querier that can also execute a unit of work atomically. Any
// error returned from fn aborts the transaction, rolling back all writes made
// through the Querier passed to it, and is returned to the caller.
type TxQuerier interface {
	Querier
	Tx(ctx context.Context, fn func(tx Querier) error) error
}
