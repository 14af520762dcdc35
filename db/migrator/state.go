package migrator

import (
	"context"

	"go.hackfix.me/reflow/db/kv"
	"go.hackfix.me/reflow/db/types"
)

// NoVersion is the current-version sentinel meaning "nothing applied".
const NoVersion = "0"

const lastAppliedKey = "last-applied"

// State is the persisted migration bookkeeping: the set of applied versions
// and the pointer to the most recently applied one. Reads are cached until
// Invalidate is called; writes go straight to the store through the given
// Querier, so they carry no transactional guarantee on their own.
type State struct {
	meta     *kv.Store
	versions *kv.Store

	current       string
	currentLoaded bool
	applied       []string
}

// NewState creates the bookkeeping state over the standard kv namespaces.
func NewState() *State {
	return &State{
		meta:     kv.NewStore("meta"),
		versions: kv.NewStore("version"),
	}
}

// Current returns the most recently applied version, or NoVersion if nothing
// was ever applied.
func (s *State) Current(ctx context.Context, d types.Querier) (string, error) {
	if s.currentLoaded {
		return s.current, nil
	}

	current, err := s.meta.Get(ctx, d, lastAppliedKey, NoVersion)
	if err != nil {
		return "", err
	}
	s.current = current
	s.currentLoaded = true

	return current, nil
}

// Applied returns the versions currently marked applied, sorted ascending by
// ordering key.
func (s *State) Applied(ctx context.Context, d types.Querier) ([]string, error) {
	if s.applied != nil {
		return s.applied, nil
	}

	entries, err := s.versions.All(ctx, d)
	if err != nil {
		return nil, err
	}
	applied := make([]string, 0, len(entries))
	for version := range entries {
		applied = append(applied, version)
	}
	sortVersions(applied)
	s.applied = applied

	return applied, nil
}

// MarkApplied adds version to the applied set.
func (s *State) MarkApplied(ctx context.Context, d types.Querier, version string) error {
	return s.versions.Put(ctx, d, version, "1")
}

// UnmarkApplied removes version from the applied set.
func (s *State) UnmarkApplied(ctx context.Context, d types.Querier, version string) error {
	return s.versions.Delete(ctx, d, version)
}

// SetCurrent overwrites the current-version pointer.
func (s *State) SetCurrent(ctx context.Context, d types.Querier, version string) error {
	return s.meta.Put(ctx, d, lastAppliedKey, version)
}

// Invalidate drops both the current-version and applied-set caches.
func (s *State) Invalidate() {
	s.current = ""
	s.currentLoaded = false
	s.applied = nil
}
