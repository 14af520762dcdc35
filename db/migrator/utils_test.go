package migrator

import (
	"crypto/rand"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.hackfix.me/reflow/db"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func timeNowFn() time.Time {
	return timeNow
}

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	// A unique name per test, to avoid clashing of in-memory SQLite DBs.
	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	// Not using just :memory: to avoid 'no such table' issue.
	// See https://github.com/mattn/go-sqlite3#faq
	d, err := db.Open(t.Context(),
		fmt.Sprintf("file:reflow-%x?mode=memory&cache=shared", rndName), timeNowFn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = d.Close()
	})

	return d
}

// noopFuncs returns a Funcs registry of do-nothing migrations for the given
// versions, for tests that only exercise planning and bookkeeping.
func noopFuncs(versions ...string) Funcs {
	funcs := make(Funcs, len(versions))
	for _, version := range versions {
		funcs[version] = FuncMigration{}
	}
	return funcs
}

func newTestMigrator(t *testing.T, d *db.DB, funcs Funcs) *Migrator {
	t.Helper()
	return New(d, funcs, funcs, nil)
}

// seedApplied marks the given versions applied and points the current version
// at the last one, bypassing the executor. Tests use it to construct
// arbitrary, including inconsistent, applied states.
func seedApplied(t *testing.T, m *Migrator, versions ...string) {
	t.Helper()

	ctx := t.Context()
	for _, version := range versions {
		require.NoError(t, m.state.MarkApplied(ctx, m.d, version))
	}
	if len(versions) > 0 {
		require.NoError(t, m.state.SetCurrent(ctx, m.d, versions[len(versions)-1]))
	}
	m.state.Invalidate()
}

func up(version string) Action {
	return Action{Version: version, Direction: DirectionUp}
}

func down(version string) Action {
	return Action{Version: version, Direction: DirectionDown}
}
