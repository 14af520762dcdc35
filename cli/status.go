package cli

import (
	"fmt"
	"slices"
	"time"

	actx "go.hackfix.me/reflow/app/context"
	aerrors "go.hackfix.me/reflow/app/errors"
	"go.hackfix.me/reflow/db/queries"
)

// The Status command shows the state of every migration in the catalog.
type Status struct{}

// Run the status command.
func (c *Status) Run(appCtx *actx.Context) error {
	ctx := appCtx.DB.NewContext()

	catalog, err := appCtx.Migrator.Versions()
	if err != nil {
		return aerrors.NewRuntimeError("failed loading the migration catalog", err, "")
	}
	applied, err := appCtx.Migrator.Applied(ctx)
	if err != nil {
		return aerrors.NewRuntimeError("failed loading the applied migrations", err, "")
	}
	current, err := appCtx.Migrator.Current(ctx)
	if err != nil {
		return aerrors.NewRuntimeError("failed loading the current version", err, "")
	}
	lastApplied, err := queries.LastApplied(ctx, appCtx.DB)
	if err != nil {
		return aerrors.NewRuntimeError("failed loading the migration history", err, "")
	}

	data := make([][]string, 0, len(catalog)+len(applied))
	addRow := func(version string, inCatalog bool) {
		status := "pending"
		switch {
		case !inCatalog:
			status = "stale"
		case slices.Contains(applied, version):
			status = "applied"
		}
		marker := ""
		if version == current {
			marker = "*"
		}
		appliedAt := ""
		if t, ok := lastApplied[version]; ok && status != "pending" {
			appliedAt = t.UTC().Format(time.DateTime)
		}
		data = append(data, []string{marker, version, status, appliedAt})
	}

	for _, version := range catalog {
		addRow(version, true)
	}
	// Applied versions missing from the catalog indicate stale state; they
	// are listed as well so the inconsistency is visible.
	for _, version := range applied {
		if !slices.Contains(catalog, version) {
			addRow(version, false)
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(appCtx.Stdout, "No migrations found.")
		return nil
	}

	err = renderTable(
		[]string{"", "Version", "Status", "Applied At"}, data, nil, appCtx.Stdout,
	)
	if err != nil {
		return fmt.Errorf("failed rendering the status table: %w", err)
	}

	return nil
}
