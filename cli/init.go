package cli

import (
	"database/sql"

	actx "go.hackfix.me/reflow/app/context"
	aerrors "go.hackfix.me/reflow/app/errors"
)

// The Init command creates the initial Reflow artifacts: the configuration
// file, the data directory and the migrations directory.
type Init struct{}

// Run the init command.
func (c *Init) Run(appCtx *actx.Context) error {
	if err := appCtx.FS.MkdirAll(appCtx.MigrationsDir, 0o755); err != nil {
		return aerrors.NewRuntimeError("failed creating the migrations directory", err, "")
	}

	cfg := appCtx.Config
	if !cfg.Migrations.Dir.Valid {
		cfg.Migrations.Dir = sql.Null[string]{V: appCtx.MigrationsDir, Valid: true}
	}
	if !cfg.Database.Path.Valid {
		cfg.Database.Path = sql.Null[string]{V: appCtx.DB.Path(), Valid: true}
	}
	if err := cfg.Save(); err != nil {
		return aerrors.NewRuntimeError("failed writing the configuration file", err, "")
	}

	appCtx.Logger.Info("initialized",
		"config", cfg.Path(), "migrations", appCtx.MigrationsDir,
		"database", appCtx.DB.Path())

	return nil
}
