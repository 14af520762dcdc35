package migrator

import (
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDir(t *testing.T, files map[string]string) *Dir {
	t.Helper()

	fs := memoryfs.New()
	require.NoError(t, fs.MkdirAll("/migrations", 0o755))
	for name, contents := range files {
		err := vfs.WriteFile(fs, "/migrations/"+name, []byte(contents), 0o644)
		require.NoError(t, err)
	}

	return NewDir(fs, "/migrations")
}

func TestDirList(t *testing.T) {
	t.Parallel()

	dir := newTestDir(t, map[string]string{
		"0001-users.up.sql":   `CREATE TABLE users (id INTEGER PRIMARY KEY)`,
		"0001-users.down.sql": `DROP TABLE users`,
		"0002-posts.up.sql":   `CREATE TABLE posts (id INTEGER PRIMARY KEY)`,
		"0002-posts.down.sql": `DROP TABLE posts`,
		"README.md":           `not a migration`,
	})

	versions, err := dir.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"0001-users", "0002-posts"}, versions)
}

func TestDirListMissingDirectory(t *testing.T) {
	t.Parallel()

	dir := NewDir(memoryfs.New(), "/nonexistent")
	_, err := dir.List()
	assert.Error(t, err)
}

func TestDirLoad(t *testing.T) {
	t.Parallel()

	dir := newTestDir(t, map[string]string{
		"0001-users.up.sql":   `CREATE TABLE users (id INTEGER PRIMARY KEY)`,
		"0001-users.down.sql": `DROP TABLE users`,
		"0002-broken.up.sql":  `CREATE TABLE broken (id INTEGER PRIMARY KEY)`,
	})

	d := newTestDB(t)
	ctx := t.Context()

	migration, err := dir.Load("0001-users")
	require.NoError(t, err)
	require.NoError(t, migration.Up(ctx, d))
	assert.True(t, tableExists(t, d, "users"))
	require.NoError(t, migration.Down(ctx, d))
	assert.False(t, tableExists(t, d, "users"))

	// Both files of the pair must exist.
	_, err = dir.Load("0002-broken")
	assert.Error(t, err)

	_, err = dir.Load("0042-nope")
	assert.Error(t, err)
}

func TestOrderingKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0001", orderingKey("0001-create-users"))
	assert.Equal(t, "20250101093000", orderingKey("20250101093000-x"))
	assert.Equal(t, "nodelimiter", orderingKey("nodelimiter"))
}
