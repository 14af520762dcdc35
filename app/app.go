package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	"go.hackfix.me/reflow/app/config"
	actx "go.hackfix.me/reflow/app/context"
	"go.hackfix.me/reflow/cli"
	"go.hackfix.me/reflow/db"
	"go.hackfix.me/reflow/db/migrator"
)

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application.
func New(name, configFilePath, dataDir string, opts ...Option) (*App, error) {
	version, err := actx.GetVersion()
	if err != nil {
		return nil, err
	}

	defaultCtx := &actx.Context{
		Ctx:        context.Background(),
		FS:         memoryfs.New(),
		Logger:     slog.Default(),
		TimeSource: sysTime{},
		Version:    version,
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(configFilePath, dataDir, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	if err := app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	if err := app.setup(); err != nil {
		return err
	}

	if err := app.cli.Execute(app.ctx); err != nil {
		return err
	}

	return nil
}

// setup loads the configuration and creates the database handle and the
// migrator used by the commands.
func (app *App) setup() error {
	cfg := config.NewConfig(app.ctx.FS, app.cli.ConfigFile)
	if err := cfg.Load(); err != nil {
		return err
	}
	app.ctx.Config = cfg
	app.cli.ApplyConfig(cfg)

	app.ctx.MigrationsDir = app.cli.MigrationsDir
	if app.ctx.MigrationsDir == "" {
		app.ctx.MigrationsDir = "migrations"
	}

	if app.ctx.DB == nil {
		dbPath := app.cli.Database
		if dbPath == "" {
			dbPath = filepath.Join(app.cli.DataDir, fmt.Sprintf("%s.db", app.name))
		}
		if err := app.ctx.FS.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("failed creating the data directory: %w", err)
		}
		d, err := db.Open(app.ctx.Ctx, dbPath, app.ctx.TimeSource.Now)
		if err != nil {
			return err
		}
		app.ctx.DB = d
	}

	dir := migrator.NewDir(app.ctx.FS, app.ctx.MigrationsDir)
	app.ctx.Migrator = migrator.New(app.ctx.DB, dir, dir, app.ctx.Logger)

	return nil
}

type sysTime struct{}

var _ actx.TimeSource = sysTime{}

func (sysTime) Now() time.Time {
	return time.Now()
}
