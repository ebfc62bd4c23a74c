// Package api provides HTTP API server configuration for the withdrawal daemon.
//
// The API is the daemon's control surface: it accepts withdrawal plans, lets
// an operator cancel the running batch and reports engine progress. The
// server holds no batch state of its own beyond the last report; everything
// else is read from the withdrawal engine it is wired to.
package api

import (
	"fmt"

	"github.com/naucourse/chooser/internal/api/handlers"
	"github.com/naucourse/chooser/internal/config"
	"github.com/naucourse/chooser/internal/resources"
	"github.com/naucourse/chooser/internal/validate"
	"github.com/naucourse/chooser/internal/version"
)

// Config holds all configuration parameters required for running the HTTP API
// server inside the withdrawal daemon.
//
// TODO: Add support for TLS/HTTPS configuration (cert/key files)
type Config struct {
	BindAddr string          // HTTP server bind address (e.g., "127.0.0.1")
	BindPort int             // HTTP server bind port
	Name     string          // Instance name reported by the health endpoint
	Version  string          // Reported by the health endpoint
	Engine   handlers.Engine // Withdrawal engine the endpoints drive

	// Pool gauges for the resources endpoint; optional
	Pool resources.PoolGauge
}

// DefaultConfig creates a Config bound to loopback on the default port. The
// engine must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		// Default to loopback: the API can start batches on the student's behalf.
		BindAddr: config.DefaultBindAddr,
		BindPort: config.DefaultAPIPort,
		Version:  version.WithdrawdVersion,
		Engine:   nil, // Must be set by caller
		Pool:     nil,
	}
}

// Validate checks the network settings and that an engine is wired in.
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.BindAddr, "bind address"); err != nil {
		return err
	}
	if err := validate.ValidatePortRange(c.BindPort); err != nil {
		return fmt.Errorf("bind port validation failed: %w", err)
	}
	if c.Engine == nil {
		return fmt.Errorf("withdrawal engine cannot be nil")
	}

	return nil
}
