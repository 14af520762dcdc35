package migrator

import (
	"context"
	"fmt"
	"slices"

	"github.com/nrednav/cuid2"

	"go.hackfix.me/reflow/db/types"
)

// execute runs a single plan action inside one transaction: the migration
// body and all bookkeeping writes either commit together or roll back
// together. Caches are invalidated only after a successful commit.
func (m *Migrator) execute(ctx context.Context, action Action) error {
	migration, err := m.loader.Load(action.Version)
	if err != nil {
		return err
	}

	err = m.d.Tx(ctx, func(tx types.Querier) error {
		switch action.Direction {
		case DirectionUp:
			if err := migration.Up(ctx, tx); err != nil {
				return err
			}
			if err := m.state.MarkApplied(ctx, tx, action.Version); err != nil {
				return err
			}
			if err := m.state.SetCurrent(ctx, tx, action.Version); err != nil {
				return err
			}
		case DirectionDown:
			if err := migration.Down(ctx, tx); err != nil {
				return err
			}
			if err := m.state.UnmarkApplied(ctx, tx, action.Version); err != nil {
				return err
			}
			// The pointer moves to the catalog entry preceding the reverted
			// version, read from a fresh listing.
			m.catalog.Invalidate()
			catalog, err := m.catalog.Load()
			if err != nil {
				return err
			}
			previous := NoVersion
			if i := slices.Index(catalog, action.Version); i > 0 {
				previous = catalog[i-1]
			}
			if err := m.state.SetCurrent(ctx, tx, previous); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid migration direction '%s'", action.Direction)
		}

		return recordHistory(ctx, tx, action)
	})
	if err != nil {
		return err
	}

	m.state.Invalidate()
	m.catalog.Invalidate()
	m.logger.Info("executed migration step",
		"version", action.Version, "direction", action.Direction)

	return nil
}

// recordHistory appends the executed action to the chronological migration
// history, inside the same transaction as the action itself.
func recordHistory(ctx context.Context, d types.Querier, action Action) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO _history (uuid, version, direction, applied_at)
			VALUES (?, ?, ?, ?)`,
		cuid2.Generate(), action.Version, string(action.Direction),
		d.TimeNow().UTC())
	if err != nil {
		return fmt.Errorf("failed recording migration history: %w",
			types.Err("history entry", action.Version, err))
	}

	return nil
}
