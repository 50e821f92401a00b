// Package server provides the local HTTP editing surface for the inventory:
// browse effective records, edit them, and move the local edits in and out
// as updates files.
//
// The architecture follows the pattern: CLI → Server → Router → Handlers →
// reconcile.Engine.
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	srv, err := server.New(engine, reload, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	http.ListenAndServe(cfg.Addr(), srv.Handler())
package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomstock/inventory/internal/server/handlers"
	"github.com/roomstock/inventory/internal/server/metrics"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/logging"
	"github.com/roomstock/inventory/pkg/reconcile"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine    *reconcile.Engine
	reload    handlers.ReloadFunc
	metrics   *metrics.Metrics
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a server over engine. reload refetches the dataset for the
// reset and reload endpoints and may be nil.
func New(engine *reconcile.Engine, reload handlers.ReloadFunc, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if engine == nil {
		return nil, errors.NewValidationError("engine", nil, "engine is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Str("prefix", cfg.PathPrefix).Msg("Creating server instance")
	return &Server{
		engine:    engine,
		reload:    reload,
		metrics:   metrics.New(),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}, nil
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Config returns the server configuration.
func (s *Server) Config() Config {
	return s.config
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}

// Shutdown flushes the patch store so no acknowledged edit is lost.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Saving local edits before shutdown")
	if err := s.engine.Save(ctx); err != nil {
		return err
	}
	s.logger.Info().Int("patches", s.engine.Store().Len()).Msg("Local edits saved")
	return nil
}
