package migrator

import (
	"context"
	"errors"
	"log/slog"

	"go.hackfix.me/reflow/db/types"
)

// ErrDowngrade is returned by Up when the computed plan would revert
// migrations, which may destroy data. Nothing is executed in that case; the
// caller must explicitly force the plan to proceed.
var ErrDowngrade = errors.New("the migration plan contains down steps")

// Migrator reconciles the database schema state with the migration catalog.
// It is not safe for concurrent use, and provides no coordination between
// processes; callers must serialize access to the underlying database.
type Migrator struct {
	d       types.TxQuerier
	catalog *Catalog
	state   *State
	loader  Loader
	logger  *slog.Logger
}

// New creates a Migrator over the given database, catalog source and
// migration loader.
func New(d types.TxQuerier, source Source, loader Loader, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Migrator{
		d:       d,
		catalog: NewCatalog(source),
		state:   NewState(),
		loader:  loader,
		logger:  logger,
	}
}

// Up applies the plan computed by PlanUp, one transactional step at a time.
// Unless force is set, a plan containing any down step fails with
// ErrDowngrade before anything is executed.
func (m *Migrator) Up(ctx context.Context, target Target, force bool) error {
	plan, err := m.PlanUp(ctx, target)
	if err != nil {
		return err
	}
	if !force && plan.ContainsDown() {
		return ErrDowngrade
	}

	return m.run(ctx, plan)
}

// Down executes the plan computed by PlanDown, one transactional step at a
// time.
func (m *Migrator) Down(ctx context.Context, target Target) error {
	plan, err := m.PlanDown(ctx, target)
	if err != nil {
		return err
	}

	return m.run(ctx, plan)
}

// RequiresMigration reports whether the database is behind the catalog.
func (m *Migrator) RequiresMigration(ctx context.Context) (bool, error) {
	plan, err := m.PlanUp(ctx, TargetAll())
	if err != nil {
		return false, err
	}

	return len(plan) > 0, nil
}

// Versions returns the full sorted migration catalog.
func (m *Migrator) Versions() ([]string, error) {
	return m.catalog.Load()
}

// Applied returns the versions currently marked applied, sorted ascending by
// ordering key.
func (m *Migrator) Applied(ctx context.Context) ([]string, error) {
	return m.state.Applied(ctx, m.d)
}

// Current returns the most recently applied version, or NoVersion if nothing
// was ever applied.
func (m *Migrator) Current(ctx context.Context) (string, error) {
	return m.state.Current(ctx, m.d)
}

func (m *Migrator) run(ctx context.Context, plan Plan) error {
	for _, action := range plan {
		if err := m.execute(ctx, action); err != nil {
			return err
		}
	}

	return nil
}
