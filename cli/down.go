package cli

import (
	actx "go.hackfix.me/reflow/app/context"
	aerrors "go.hackfix.me/reflow/app/errors"
	"go.hackfix.me/reflow/db/migrator"
)

// The Down command reverts applied migrations, optionally down to a target.
type Down struct {
	Target string `arg:"" optional:"" help:"Exact migration version to stop above, or a step count relative to the topmost applied version. Reverts everything if omitted."`
}

// Run the down command.
func (c *Down) Run(appCtx *actx.Context) error {
	ctx := appCtx.DB.NewContext()
	err := appCtx.Migrator.Down(ctx, migrator.ParseTarget(c.Target))
	if err != nil {
		return aerrors.NewRuntimeError("failed migrating down", err, "")
	}

	current, err := appCtx.Migrator.Current(ctx)
	if err != nil {
		return err
	}
	appCtx.Logger.Info("database migrated", "current", current)

	return nil
}
