package queries

import (
	"context"
	"time"

	"go.hackfix.me/reflow/db/types"
)

// LastApplied returns the timestamp of the most recent 'up' execution of each
// migration version recorded in the history.
func LastApplied(ctx context.Context, d types.Querier) (map[string]time.Time, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT version, applied_at FROM _history
			WHERE direction = 'up' ORDER BY applied_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Later rows overwrite earlier ones, leaving the most recent timestamp.
	result := make(map[string]time.Time)
	for rows.Next() {
		var (
			version   string
			appliedAt time.Time
		)
		if err = rows.Scan(&version, &appliedAt); err != nil {
			return nil, types.ScanError{ModelName: "history entry", Err: err}
		}
		result[version] = appliedAt
	}

	return result, rows.Err()
}
