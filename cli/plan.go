package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter/tw"

	actx "go.hackfix.me/reflow/app/context"
	aerrors "go.hackfix.me/reflow/app/errors"
	"go.hackfix.me/reflow/db/migrator"
)

// The Plan command prints the migration plan that an up or down run would
// execute, without executing it.
type Plan struct {
	Target string `arg:"" optional:"" help:"Exact migration version, or a step count relative to the topmost applied version."`
	Down   bool   `help:"Compute the plan for a down run instead of an up run."`
}

// Run the plan command.
func (c *Plan) Run(appCtx *actx.Context) error {
	var (
		plan   migrator.Plan
		err    error
		ctx    = appCtx.DB.NewContext()
		target = migrator.ParseTarget(c.Target)
	)
	if c.Down {
		plan, err = appCtx.Migrator.PlanDown(ctx, target)
	} else {
		plan, err = appCtx.Migrator.PlanUp(ctx, target)
	}
	if err != nil {
		return aerrors.NewRuntimeError("failed computing the migration plan", err, "")
	}

	if len(plan) == 0 {
		fmt.Fprintln(appCtx.Stdout, "Nothing to do.")
		return nil
	}

	data := make([][]string, len(plan))
	for i, action := range plan {
		data[i] = []string{
			strconv.Itoa(i + 1), action.Version, string(action.Direction),
		}
	}
	err = renderTable(
		[]string{"#", "Version", "Direction"}, data,
		map[int]tw.Align{0: tw.AlignRight}, appCtx.Stdout,
	)
	if err != nil {
		return fmt.Errorf("failed rendering the plan table: %w", err)
	}

	return nil
}
