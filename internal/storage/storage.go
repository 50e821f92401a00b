// Package storage provides the device-local backends the patch store
// persists to: a JSON file per key, an embedded badger database, or memory.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/patches"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Backend is a durable key/value store that can be closed.
type Backend interface {
	patches.Durable
	io.Closer
}

// Config selects and locates a backend.
type Config struct {
	Backend string
	Dir     string
	Logger  *zerolog.Logger
}

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendBadger, BackendMemory}
}

// Open returns the backend described by cfg. An empty backend name means file.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	dir, err := ExpandDir(cfg.Dir)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		return NewFile(dir)
	case BackendBadger:
		return NewBadger(filepath.Join(dir, "badger"), cfg.Logger)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, errors.NewConfigError("store",
			"unknown backend "+cfg.Backend+" (want one of "+strings.Join(Backends(), ", ")+")", nil)
	}
}

// ExpandDir resolves a leading ~ and falls back to the default store directory.
func ExpandDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = constants.DefaultStoreDir
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.NewConfigError("store", "cannot resolve home directory", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return filepath.Clean(dir), nil
}
