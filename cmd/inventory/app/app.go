// Package app provides the application context and dependency management
// for the inventory CLI. It centralizes configuration, the logger and the
// lazily opened reconciliation engine.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/internal/dataset"
	"github.com/roomstock/inventory/internal/storage"
	"github.com/roomstock/inventory/internal/transport"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/patches"
	"github.com/roomstock/inventory/pkg/reconcile"
)

// App represents the inventory application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Engine and its backend (lazy-initialized, singleton)
	mu      sync.RWMutex
	engine  *reconcile.Engine
	backend storage.Backend
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration from files and the environment,
// which can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Dataset fetches the canonical records from the configured location.
func (a *App) Dataset(ctx context.Context) ([]inventory.Record, error) {
	auth, err := transport.ParseAuth(a.config.DataAuth)
	if err != nil {
		return nil, err
	}
	client := transport.New(
		transport.WithTimeout(a.config.FetchTimeout),
		transport.WithAuth(auth, a.config.DataToken),
	)
	records, err := dataset.NewLoader(client).Load(ctx, a.config.Data)
	if err != nil {
		return nil, fmt.Errorf("%w\n  hint: %s", err, dataset.Hint)
	}
	return records, nil
}

// Engine returns the reconciliation engine, creating it lazily if needed.
// The first call opens the patch store and loads the canonical dataset.
func (a *App) Engine(ctx context.Context) (*reconcile.Engine, error) {
	a.mu.RLock()
	if a.engine != nil {
		engine := a.engine
		a.mu.RUnlock()
		return engine, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		return a.engine, nil
	}

	canonical, err := a.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(ctx, storage.Config{
		Backend: a.config.StoreBackend,
		Dir:     a.config.StoreDir,
		Logger:  a.logger,
	})
	if err != nil {
		return nil, errors.WrapResource("open", "store", a.config.StoreBackend, err)
	}

	store := patches.New(backend,
		patches.WithKey(a.config.StoreKey),
		patches.WithLogger(a.logger),
	)
	engine, err := reconcile.New(store,
		reconcile.WithLogger(a.logger),
		reconcile.WithAutoSave(true),
	)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	loaded, result, err := engine.Open(ctx, canonical)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	a.logger.Debug().
		Str("store", loaded.Status.String()).
		Int("patches", loaded.Count).
		Int("items", result.Metadata.Stats.RecordsProcessed).
		Int("orphans", len(result.Orphans)).
		Msg("Inventory opened")

	a.engine = engine
	a.backend = backend
	return engine, nil
}

// Shutdown releases the store backend. Edits are already durable since the
// engine saves after every mutation.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to close store during shutdown")
		return err
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithEngine sets a custom engine instance (useful for testing).
func WithEngine(engine *reconcile.Engine) Option {
	return func(a *App) error {
		a.engine = engine
		return nil
	}
}
