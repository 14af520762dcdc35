package db_test

import (
	"crypto/rand"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/reflow/db"
	"go.hackfix.me/reflow/db/types"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	d, err := db.Open(t.Context(),
		fmt.Sprintf("file:reflow-%x?mode=memory&cache=shared", rndName), time.Now)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = d.Close()
	})

	return d
}

func countKeys(t *testing.T, d *db.DB) int {
	t.Helper()

	var count int
	err := d.QueryRowContext(t.Context(), `SELECT COUNT(*) FROM _kv`).Scan(&count)
	require.NoError(t, err)

	return count
}

func TestTxCommit(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	ctx := t.Context()

	err := d.Tx(ctx, func(tx types.Querier) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO _kv (key, value) VALUES ('meta:a', '1')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countKeys(t, d))
}

func TestTxRollback(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	ctx := t.Context()
	failure := errors.New("nope")

	err := d.Tx(ctx, func(tx types.Querier) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO _kv (key, value) VALUES ('meta:a', '1')`)
		require.NoError(t, err)
		return failure
	})
	// The error must be returned as-is, and all writes rolled back.
	require.ErrorIs(t, err, failure)
	assert.Equal(t, 0, countKeys(t, d))
}
