package migrator

import (
	"slices"
	"strconv"
)

type targetKind int

const (
	targetAll targetKind = iota
	targetVersion
	targetSteps
)

// Target designates how far a plan should go: all the way, up to an exact
// version, or a number of steps relative to the topmost applied version. The
// zero value means "all the way".
type Target struct {
	kind    targetKind
	version string
	steps   int
}

// TargetAll returns a target meaning "reconcile fully".
func TargetAll() Target {
	return Target{}
}

// TargetVersion returns a target that stops once the exact version was
// processed.
func TargetVersion(version string) Target {
	return Target{kind: targetVersion, version: version}
}

// TargetSteps returns a target n catalog positions away from the topmost
// applied version.
func TargetSteps(n int) Target {
	return Target{kind: targetSteps, steps: n}
}

// ParseTarget interprets a CLI argument as a target: an empty string means
// "all", an integer is a step count, and anything else is an exact version.
func ParseTarget(arg string) Target {
	if arg == "" {
		return TargetAll()
	}
	if n, err := strconv.Atoi(arg); err == nil {
		return TargetSteps(n)
	}
	return TargetVersion(arg)
}

// resolve turns the target into a concrete stop version for an up plan. The
// second return value reports whether a stop condition exists at all; without
// one the plan runs to completion.
func (t Target) resolve(catalog, applied []string) (string, bool) {
	switch t.kind {
	case targetVersion:
		return t.version, true
	case targetSteps:
		return resolveSteps(catalog, applied, t.steps)
	default:
		return "", false
	}
}

// resolveDown mirrors resolve for down plans: a step count is subtracted from
// the topmost applied version's catalog position instead of added.
func (t Target) resolveDown(catalog, applied []string) (string, bool) {
	switch t.kind {
	case targetVersion:
		return t.version, true
	case targetSteps:
		return resolveSteps(catalog, applied, -t.steps)
	default:
		return "", false
	}
}

func resolveSteps(catalog, applied []string, steps int) (string, bool) {
	// Bootstrapping always takes exactly one step, regardless of the
	// requested count.
	if len(applied) == 0 {
		if len(catalog) == 0 {
			return "", false
		}
		return catalog[0], true
	}

	top := applied[len(applied)-1]
	i := slices.Index(catalog, top)
	if i == -1 {
		// The topmost applied version is no longer in the catalog; with no
		// reliable anchor the plan runs to completion.
		return "", false
	}

	j := i + steps
	if j < 0 || j >= len(catalog) {
		// Out-of-bounds step counts mean "as far as possible", not an error.
		return "", false
	}

	return catalog[j], true
}
