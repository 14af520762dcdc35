package migrator

import (
	"context"
	"fmt"
	"slices"
)

// Direction of a single migration step.
type Direction string

// Valid migration directions.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Action is one migration step: a version and the direction to run it in.
type Action struct {
	Version   string
	Direction Direction
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s", a.Version, a.Direction)
}

// Plan is an ordered sequence of actions. Executing a plan in order leaves
// the applied set equal to the contiguous catalog prefix implied by the
// requested target.
type Plan []Action

// ContainsDown reports whether the plan would revert any migration.
func (p Plan) ContainsDown() bool {
	return slices.ContainsFunc(p, func(a Action) bool {
		return a.Direction == DirectionDown
	})
}

// PlanUp computes the ordered plan that reconciles the applied set with the
// catalog, up to the given target.
//
// The catalog is scanned in order, tracking a working copy of the applied
// sequence. A version that already occupies its correct slot needs no
// action. Any other version found at a catalog position signals an
// inconsistency (a gap, or an out-of-order entry): everything above that
// position is rolled back from the working copy, tail first, and the
// version is applied in its place. Versions rolled back this way are
// re-applied when the scan reaches their own catalog position, since they
// are then missing from the shrunken working copy.
func (m *Migrator) PlanUp(ctx context.Context, target Target) (Plan, error) {
	catalog, err := m.catalog.Load()
	if err != nil {
		return nil, err
	}
	applied, err := m.state.Applied(ctx, m.d)
	if err != nil {
		return nil, err
	}

	stop, bounded := target.resolve(catalog, applied)

	working := slices.Clone(applied)
	position := make(map[string]int, len(working))
	for i, v := range working {
		position[v] = i
	}

	var plan Plan
	for i, v := range catalog {
		if j, ok := position[v]; !ok || j != i {
			for len(working) > i {
				tail := working[len(working)-1]
				plan = append(plan, Action{Version: tail, Direction: DirectionDown})
				working = working[:len(working)-1]
				delete(position, tail)
			}
			plan = append(plan, Action{Version: v, Direction: DirectionUp})
			working = append(working, v)
			position[v] = i
		}
		if bounded && v == stop {
			break
		}
	}

	return plan, nil
}

// PlanDown computes the ordered plan that reverts migrations down to (but not
// including) the given target, or all of them if the target is "all".
//
// It starts from the full up plan, representing the state the system would
// reach if fully upgraded, appends a down action for every catalog entry
// from the last one backward until the target, and then cancels the one
// symmetric up/down block that the two halves share. Steps that would be
// applied only to be immediately reverted thus never run.
func (m *Migrator) PlanDown(ctx context.Context, target Target) (Plan, error) {
	plan, err := m.PlanUp(ctx, TargetAll())
	if err != nil {
		return nil, err
	}
	catalog, err := m.catalog.Load()
	if err != nil {
		return nil, err
	}
	applied, err := m.state.Applied(ctx, m.d)
	if err != nil {
		return nil, err
	}

	stop, bounded := target.resolveDown(catalog, applied)

	for i := len(catalog) - 1; i >= 0; i-- {
		if bounded && catalog[i] == stop {
			break
		}
		plan = append(plan, Action{Version: catalog[i], Direction: DirectionDown})
	}

	return cancelOpposites(plan), nil
}

// cancelOpposites removes the first symmetric block of up actions
// immediately followed by the matching down actions in reverse order. Only a
// single site is cancelled, in a single pass; the scan is not repeated for
// further savings.
func cancelOpposites(plan Plan) Plan {
	for i := range plan {
		count := 0
		for i-count >= 0 && i+count+1 < len(plan) &&
			plan[i-count].Direction == DirectionUp &&
			plan[i+count+1].Direction == DirectionDown &&
			plan[i-count].Version == plan[i+count+1].Version {
			count++
		}
		if count > 0 {
			return slices.Delete(plan, i-count+1, i+count+1)
		}
	}

	return plan
}
