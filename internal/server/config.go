package server

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/roomstock/inventory/pkg/errors"
)

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	PathPrefix string

	CORSEnabled bool
	CORSOrigins []string

	// Reads never need the edit key; every mutating route does when
	// AuthEnabled is set.
	AuthEnabled bool
	AuthHeader  string
	EditKey     string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MetricsEnabled bool
}

// DefaultConfig returns the configuration the serve command starts from.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     "/api/v1",
		CORSOrigins:    []string{},
		AuthHeader:     "X-Edit-Key",
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}

// Addr returns the host:port the server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate fills an empty prefix and header and rejects settings the
// server cannot run with.
func (c *Config) Validate() error {
	if c.PathPrefix == "" {
		c.PathPrefix = DefaultConfig().PathPrefix
	}
	c.PathPrefix = "/" + strings.Trim(c.PathPrefix, "/")
	if c.AuthHeader == "" {
		c.AuthHeader = DefaultConfig().AuthHeader
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.NewConfigError("port", "port must be between 0 and 65535", nil)
	}
	if c.AuthEnabled && c.EditKey == "" {
		return errors.NewConfigError("server", "edit key authentication is enabled but no key is set", nil)
	}
	return nil
}
