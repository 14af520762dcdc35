package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"

	actx "go.hackfix.me/reflow/app/context"
	aerrors "go.hackfix.me/reflow/app/errors"
)

// The NewMigration command creates an empty up/down migration file pair in
// the migrations directory. The version is derived from the current UTC time,
// so ordering keys are fixed-width and chronological order matches string
// order.
type NewMigration struct {
	Description []string `arg:"" help:"Short description of the migration, e.g. 'create users'."`
}

// Run the new command.
func (c *NewMigration) Run(appCtx *actx.Context) error {
	slug := slugify(strings.Join(c.Description, " "))
	if slug == "" {
		return fmt.Errorf("invalid migration description: %q", strings.Join(c.Description, " "))
	}

	if err := appCtx.FS.MkdirAll(appCtx.MigrationsDir, 0o755); err != nil {
		return aerrors.NewRuntimeError("failed creating the migrations directory", err, "")
	}

	version := fmt.Sprintf("%s-%s",
		appCtx.TimeSource.Now().UTC().Format("20060102150405"), slug)

	for _, suffix := range []string{".up.sql", ".down.sql"} {
		path := filepath.Join(appCtx.MigrationsDir, version+suffix)
		contents := fmt.Sprintf("-- %s%s\n", version, suffix)
		if err := vfs.WriteFile(appCtx.FS, path, []byte(contents), 0o644); err != nil {
			return aerrors.NewRuntimeError("failed writing migration file", err, "")
		}
	}

	appCtx.Logger.Info("created migration", "version", version)

	return nil
}

// slugify lowercases the description and replaces anything that isn't a
// letter or digit with a single '-'.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
