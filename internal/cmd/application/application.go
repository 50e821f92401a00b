// Package application provides the application interface for inventory
// commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested against an engine built over an in-memory store:
//
//	mock := &application.Mock{
//	    EngineFunc: func(context.Context) (*reconcile.Engine, error) {
//	        return engine, nil
//	    },
//	}
//	cmd := items.NewListCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/reconcile"
)

// Application provides what commands need from the running program.
type Application interface {
	// Engine returns the reconciliation engine, opening the patch store and
	// loading the dataset on first use.
	Engine(ctx context.Context) (*reconcile.Engine, error)

	// Dataset fetches the canonical records again from the configured
	// location.
	Dataset(ctx context.Context) ([]inventory.Record, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
