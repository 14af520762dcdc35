package app

import (
	"testing"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppMigrateCycle(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t)
	ta.writeMigration(t, "0001-users",
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`,
		`DROP TABLE users`)
	ta.writeMigration(t, "0002-posts",
		`CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER)`,
		`DROP TABLE posts`)

	require.NoError(t, ta.Run("up", "--migrations-dir=/migrations"))
	assert.Contains(t, ta.stderr.String(), "database migrated")
	assert.Contains(t, ta.stderr.String(), "current=0002-posts")

	var count int
	err := ta.d.QueryRowContext(t.Context(),
		`SELECT COUNT(*) FROM sqlite_master
			WHERE type = 'table' AND name IN ('users', 'posts')`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, ta.Run("status", "--migrations-dir=/migrations"))
	assert.Contains(t, ta.stdout.String(), "0001-users")
	assert.Contains(t, ta.stdout.String(), "0002-posts")
	assert.Contains(t, ta.stdout.String(), "applied")
	assert.NotContains(t, ta.stdout.String(), "pending")

	require.NoError(t, ta.Run("down", "--migrations-dir=/migrations"))

	require.NoError(t, ta.Run("status", "--migrations-dir=/migrations"))
	assert.NotContains(t, ta.stdout.String(), "applied")
	assert.Contains(t, ta.stdout.String(), "pending")

	err = ta.d.QueryRowContext(t.Context(),
		`SELECT COUNT(*) FROM sqlite_master
			WHERE type = 'table' AND name IN ('users', 'posts')`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAppPlan(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t)
	ta.writeMigration(t, "0001-users",
		`CREATE TABLE users (id INTEGER PRIMARY KEY)`, `DROP TABLE users`)

	require.NoError(t, ta.Run("plan", "--migrations-dir=/migrations"))
	assert.Contains(t, ta.stdout.String(), "0001-users")
	assert.Contains(t, ta.stdout.String(), "up")

	// The plan is only displayed, not executed.
	require.NoError(t, ta.Run("plan", "--migrations-dir=/migrations"))
	assert.Contains(t, ta.stdout.String(), "0001-users")

	require.NoError(t, ta.Run("down", "--migrations-dir=/migrations"))
	require.NoError(t, ta.Run("plan", "--migrations-dir=/migrations", "--down"))
	assert.Contains(t, ta.stdout.String(), "Nothing to do.")
}

func TestAppNew(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t)
	require.NoError(t, ta.Run("new", "Create", "Users!", "--migrations-dir=/migrations"))

	for _, suffix := range []string{".up.sql", ".down.sql"} {
		contents, err := vfs.ReadFile(ta.fs,
			"/migrations/20250101000000-create-users"+suffix)
		require.NoError(t, err)
		assert.Contains(t, string(contents), "20250101000000-create-users")
	}
}

func TestAppInit(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t)
	require.NoError(t, ta.Run("init", "--migrations-dir=/migrations"))

	contents, err := vfs.ReadFile(ta.fs, "/config.json")
	require.NoError(t, err)
	assert.Contains(t, string(contents), "/migrations")

	ok, err := vfs.DirExists(ta.fs, "/migrations")
	require.NoError(t, err)
	assert.True(t, ok)
}
