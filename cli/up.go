package cli

import (
	"errors"

	actx "go.hackfix.me/reflow/app/context"
	aerrors "go.hackfix.me/reflow/app/errors"
	"go.hackfix.me/reflow/db/migrator"
)

// The Up command applies pending migrations, optionally up to a target.
type Up struct {
	Target string `arg:"" optional:"" help:"Exact migration version, or a step count relative to the topmost applied version. Applies everything if omitted."`
	Force  bool   `help:"Proceed even if the plan reverts migrations, which may cause data loss."`
}

// Run the up command.
func (c *Up) Run(appCtx *actx.Context) error {
	ctx := appCtx.DB.NewContext()
	err := appCtx.Migrator.Up(ctx, migrator.ParseTarget(c.Target), c.Force)
	if errors.Is(err, migrator.ErrDowngrade) {
		return aerrors.NewRuntimeError("refusing to revert migrations", err,
			"Re-run with --force to proceed anyway.")
	}
	if err != nil {
		return aerrors.NewRuntimeError("failed migrating up", err, "")
	}

	current, err := appCtx.Migrator.Current(ctx)
	if err != nil {
		return err
	}
	appCtx.Logger.Info("database migrated", "current", current)

	return nil
}
