package migrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/reflow/db/types"
)

// Migration is a single schema change that can be applied and reverted. Both
// methods receive a Querier scoped to the transaction the step runs in, so
// any error returned rolls back all of the migration's changes.
type Migration interface {
	Up(ctx context.Context, d types.Querier) error
	Down(ctx context.Context, d types.Querier) error
}

// Loader resolves a migration version to its implementation.
type Loader interface {
	Load(version string) (Migration, error)
}

// Source enumerates the available migration versions. The order of the
// returned listing carries no meaning.
type Source interface {
	List() ([]string, error)
}

// Dir loads SQL migrations from a directory on the given filesystem. Files
// are named '{version}.up.sql' and '{version}.down.sql', where the version is
// of the form '{orderingKey}-{description}', e.g.
// '20250101093000-create-users'. It implements both Source and Loader.
type Dir struct {
	fs   vfs.FileSystem
	path string
}

var (
	_ Source = (*Dir)(nil)
	_ Loader = (*Dir)(nil)
)

// NewDir creates a migration directory source rooted at path.
func NewDir(fsys vfs.FileSystem, path string) *Dir {
	return &Dir{fs: fsys, path: path}
}

// List returns the versions of all migrations in the directory, derived from
// the names of the '*.up.sql' files.
func (d *Dir) List() ([]string, error) {
	entries, err := vfs.ReadDir(d.fs, d.path)
	if err != nil {
		return nil, fmt.Errorf("failed listing migrations directory '%s': %w", d.path, err)
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), upSuffix) {
			continue
		}
		versions = append(versions, strings.TrimSuffix(entry.Name(), upSuffix))
	}

	return versions, nil
}

// Load reads the up and down SQL files of the given version.
func (d *Dir) Load(version string) (Migration, error) {
	upSQL, err := vfs.ReadFile(d.fs, filepath.Join(d.path, version+upSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed reading migration '%s': %w", version, err)
	}
	downSQL, err := vfs.ReadFile(d.fs, filepath.Join(d.path, version+downSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed reading migration '%s': %w", version, err)
	}

	return &sqlMigration{version: version, up: string(upSQL), down: string(downSQL)}, nil
}

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// sqlMigration executes raw SQL statements read from a migration file pair.
type sqlMigration struct {
	version string
	up      string
	down    string
}

func (m *sqlMigration) Up(ctx context.Context, d types.Querier) error {
	if _, err := d.ExecContext(ctx, m.up); err != nil {
		return fmt.Errorf("failed applying migration '%s': %w", m.version, err)
	}
	return nil
}

func (m *sqlMigration) Down(ctx context.Context, d types.Querier) error {
	if _, err := d.ExecContext(ctx, m.down); err != nil {
		return fmt.Errorf("failed reverting migration '%s': %w", m.version, err)
	}
	return nil
}

// FuncMigration is a migration defined by a pair of Go functions. It's mainly
// useful for embedders and tests.
type FuncMigration struct {
	UpFn   func(ctx context.Context, d types.Querier) error
	DownFn func(ctx context.Context, d types.Querier) error
}

// Up applies the migration.
func (m FuncMigration) Up(ctx context.Context, d types.Querier) error {
	if m.UpFn == nil {
		return nil
	}
	return m.UpFn(ctx, d)
}

// Down reverts the migration.
func (m FuncMigration) Down(ctx context.Context, d types.Querier) error {
	if m.DownFn == nil {
		return nil
	}
	return m.DownFn(ctx, d)
}

// Funcs is an in-memory migration registry keyed by version. It implements
// both Source and Loader.
type Funcs map[string]FuncMigration

var (
	_ Source = (Funcs)(nil)
	_ Loader = (Funcs)(nil)
)

// List returns all registered versions.
func (f Funcs) List() ([]string, error) {
	versions := make([]string, 0, len(f))
	for version := range f {
		versions = append(versions, version)
	}
	return versions, nil
}

// Load returns the migration registered under version.
func (f Funcs) Load(version string) (Migration, error) {
	m, ok := f[version]
	if !ok {
		return nil, fmt.Errorf("unknown migration '%s'", version)
	}
	return m, nil
}

// orderingKey returns the portion of the version that participates in
// ordering: the substring before the first '-'.
func orderingKey(version string) string {
	key, _, _ := strings.Cut(version, "-")
	return key
}

// sortVersions sorts versions ascending by ordering key, comparing keys as
// plain strings. Listing-order ties are preserved; equal keys from different
// versions fall back to the full version string so the order is
// deterministic regardless of the raw listing order.
func sortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		ki, kj := orderingKey(versions[i]), orderingKey(versions[j])
		if ki != kj {
			return ki < kj
		}
		return versions[i] < versions[j]
	})
}
