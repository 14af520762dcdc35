package db

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/glebarez/go-sqlite"

	"go.hackfix.me/reflow/db/types"
)

// DB wraps sql.DB with additional context and transaction support.
type DB struct {
	*sql.DB
	ctx     context.Context
	timeNow func() time.Time
	path    string
}

var _ types.TxQuerier = (*DB)(nil)

// Open creates and configures a new SQLite database connection, and ensures
// the bookkeeping tables exist.
func Open(ctx context.Context, path string, timeNow func() time.Time) (*DB, error) {
	var d *DB
	if strings.Contains(path, "mode=memory") || strings.Contains(path, ":memory:") {
		defer func() {
			if d != nil {
				// See https://github.com/mattn/go-sqlite3#faq
				d.SetMaxIdleConns(10)
				d.SetConnMaxLifetime(time.Duration(math.Inf(1)))
			}
		}()
	}

	sqliteDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed opening SQLite database: %w", err)
	}

	d = &DB{DB: sqliteDB, ctx: ctx, path: path, timeNow: timeNow}

	// Enable foreign key enforcement
	_, err = d.Exec(`PRAGMA foreign_keys = ON;`)
	if err != nil {
		return nil, fmt.Errorf("failed enabling foreign key enforcement: %w", err)
	}

	if err = createBookkeepingTables(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// NewContext returns a new child context of the main database context.
func (d *DB) NewContext() context.Context {
	// TODO: Return cancel func?
	ctx, _ := context.WithCancel(d.ctx) //nolint:govet // I'll handle this later...
	return ctx
}

// Path returns the filesystem path of the database.
func (d *DB) Path() string {
	return d.path
}

// TimeNow returns the current system time.
func (d *DB) TimeNow() time.Time {
	return d.timeNow()
}

// Tx executes fn inside a single database transaction. If fn returns an
// error, all writes made through the Querier passed to it are rolled back,
// and the error is returned as-is. Otherwise the transaction is committed.
func (d *DB) Tx(ctx context.Context, fn func(tx types.Querier) error) error {
	sqlTx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed starting transaction: %w", err)
	}

	if err = fn(&tx{Tx: sqlTx, db: d}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed rolling back transaction: %w (caused by: %w)", rbErr, err)
		}
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed committing transaction: %w", err)
	}

	return nil
}

// tx adapts sql.Tx to the types.Querier interface, delegating the helper
// methods to the parent DB.
type tx struct {
	*sql.Tx
	db *DB
}

var _ types.Querier = (*tx)(nil)

func (t *tx) NewContext() context.Context {
	return t.db.NewContext()
}

func (t *tx) TimeNow() time.Time {
	return t.db.TimeNow()
}

func createBookkeepingTables(ctx context.Context, d *DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS _history (
			uuid       TEXT PRIMARY KEY,
			version    TEXT NOT NULL,
			direction  TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed creating bookkeeping tables: %w", err)
		}
	}

	return nil
}
