// Package config holds the withdrawal daemon's configuration.
//
// Values arrive from cobra flags into Global, get environment overrides in
// InitializeConfig and are checked by ValidateConfig. The builders at the
// bottom of this file turn Global into the per-package configs consumed by
// the worker pool, the school client, the coordinator and the API server.
package config

import (
	"fmt"
	"time"

	"github.com/naucourse/chooser/internal/api"
	configDefaults "github.com/naucourse/chooser/internal/config"
	"github.com/naucourse/chooser/internal/school"
	"github.com/naucourse/chooser/internal/version"
	"github.com/naucourse/chooser/internal/withdrawal"
	"github.com/naucourse/chooser/internal/workerpool"
)

// ConfigField represents a configuration field that can be explicitly set
type ConfigField int

const (
	// Configuration field identifiers
	APIAddrField ConfigField = iota
	LogFileField
)

const (
	DefaultAPI             = configDefaults.DefaultBindAddr + ":8009" // Default API address
	DefaultSchoolURL       = configDefaults.DefaultSchoolURL
	DefaultWorkers         = configDefaults.DefaultWorkers
	DefaultTimeout         = configDefaults.DefaultRequestTimeout
	DefaultShutdownTimeout = configDefaults.DefaultShutdownTimeout
	DefaultLogLevel        = configDefaults.DefaultLogLevel
)

// CookieEnvVar supplies the school session cookie without exposing it in the
// process list.
const CookieEnvVar = "CHOOSER_COOKIE"

// Config holds all daemon configuration values
type Config struct {
	APIAddr           string        // HTTP API server address
	APIPort           int           // HTTP API server port (derived from APIAddr)
	Name              string        // Instance name, generated when empty
	SchoolURL         string        // JWC server root
	Endpoint          string        // Withdrawal handler relative to SchoolURL
	Cookie            string        // Session cookie of the logged-in student
	Workers           int           // Concurrent withdrawal requests
	Timeout           time.Duration // Per-request timeout
	RetryCount        int           // Connection level retries per request
	RequestsPerSecond float64       // Request pacing, 0 disables
	ShutdownTimeout   time.Duration // Grace period for in-flight requests on shutdown
	LogLevel          string        // Log level: DEBUG, INFO, WARN, ERROR
	LogFile           string        // Log file path, empty logs to stdout/stderr

	// Flags to track if values were explicitly set by user
	apiAddrExplicitlySet bool
	logFileExplicitlySet bool
}

// Global configuration instance
var Global Config

// SetExplicitlySet marks a configuration field as explicitly set by the user.
func (c *Config) SetExplicitlySet(field ConfigField, value bool) {
	switch field {
	case APIAddrField:
		c.apiAddrExplicitlySet = value
	case LogFileField:
		c.logFileExplicitlySet = value
	}
}

// IsExplicitlySet returns whether a configuration field was explicitly set by the user.
// An API address left at its default may fall back to the next free port.
func (c *Config) IsExplicitlySet(field ConfigField) bool {
	switch field {
	case APIAddrField:
		return c.apiAddrExplicitlySet
	case LogFileField:
		return c.logFileExplicitlySet
	}
	return false
}

// WorkerPoolConfig builds the worker pool config.
func (c *Config) WorkerPoolConfig() *workerpool.Config {
	cfg := workerpool.DefaultConfig()
	cfg.Workers = c.Workers
	return cfg
}

// SchoolConfig builds the school client config.
func (c *Config) SchoolConfig() *school.Config {
	cfg := school.DefaultConfig()
	cfg.BaseURL = c.SchoolURL
	cfg.Timeout = c.Timeout
	cfg.RetryCount = c.RetryCount
	cfg.RequestsPerSecond = c.RequestsPerSecond
	cfg.Cookie = c.Cookie
	cfg.UserAgent = fmt.Sprintf("withdrawd/%s", version.WithdrawdVersion)
	return cfg
}

// WithdrawalConfig builds the coordinator config.
func (c *Config) WithdrawalConfig() *withdrawal.Config {
	cfg := withdrawal.DefaultConfig()
	if c.Endpoint != "" {
		cfg.Endpoint = c.Endpoint
	}
	return cfg
}

// APIConfig builds the API server config around engine and the pool it
// dispatches to.
func (c *Config) APIConfig(engine *withdrawal.Coordinator, pool *workerpool.Pool) *api.Config {
	cfg := api.DefaultConfig()
	cfg.BindAddr = c.APIAddr
	cfg.BindPort = c.APIPort
	cfg.Name = c.Name
	cfg.Version = version.WithdrawdVersion
	cfg.Engine = engine
	if pool != nil {
		cfg.Pool = pool
	}
	return cfg
}
