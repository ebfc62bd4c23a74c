// Package config provides configuration management for the withdrawctl CLI.
package config

import (
	"fmt"
	"time"

	configDefaults "github.com/naucourse/chooser/internal/config"
	"github.com/naucourse/chooser/internal/school"
	"github.com/naucourse/chooser/internal/version"
	"github.com/naucourse/chooser/internal/withdrawal"
	"github.com/naucourse/chooser/internal/workerpool"
)

const (
	DefaultAPIAddr = "127.0.0.1:8009" // Default daemon API address (routable)
)

// CookieEnvVar supplies the school session cookie without exposing it in
// shell history.
const CookieEnvVar = "CHOOSER_COOKIE"

// Version returns the current withdrawctl CLI version from the centralized version package
var Version = version.WithdrawctlVersion

// Global holds the global CLI configuration
var Global struct {
	APIAddr        string // Address of the withdrawd API server to connect to
	LogLevel       string // Log level for CLI operations
	ConnectTimeout int    // Daemon connection timeout in seconds
	Verbose        bool   // Show verbose output
	Output         string // Output format: table, json
}

// Submit holds the in-process submit command configuration
var Submit struct {
	PlanFile          string        // YAML or JSON plan
	SchoolURL         string        // JWC server root
	Endpoint          string        // Withdrawal handler relative to SchoolURL
	Cookie            string        // Session cookie of the logged-in student
	Workers           int           // Concurrent withdrawal requests
	Timeout           time.Duration // Per-request timeout
	RetryCount        int           // Connection level retries per request
	RequestsPerSecond float64       // Request pacing, 0 disables
}

// Validate holds the validate command configuration
var Validate struct {
	PlanFile string
}

// Send holds the daemon send command configuration
var Send struct {
	PlanFile string
	Wait     bool // Poll the daemon until the batch finishes
}

// Status holds the status command configuration
var Status struct {
	Watch bool
}

// Resources holds resources command flags
var Resources struct {
	Watch bool
}

// Defaults for the submit command flags.
const (
	DefaultSchoolURL = configDefaults.DefaultSchoolURL
	DefaultWorkers   = configDefaults.DefaultWorkers
	DefaultTimeout   = configDefaults.DefaultRequestTimeout
)

// WorkerPoolConfig builds the worker pool config for an in-process batch.
func WorkerPoolConfig() *workerpool.Config {
	cfg := workerpool.DefaultConfig()
	cfg.Workers = Submit.Workers
	return cfg
}

// SchoolConfig builds the school client config for an in-process batch.
func SchoolConfig() *school.Config {
	cfg := school.DefaultConfig()
	cfg.BaseURL = Submit.SchoolURL
	cfg.Timeout = Submit.Timeout
	cfg.RetryCount = Submit.RetryCount
	cfg.RequestsPerSecond = Submit.RequestsPerSecond
	cfg.Cookie = Submit.Cookie
	cfg.UserAgent = fmt.Sprintf("withdrawctl/%s", Version)
	return cfg
}

// WithdrawalConfig builds the coordinator config for an in-process batch.
func WithdrawalConfig() *withdrawal.Config {
	cfg := withdrawal.DefaultConfig()
	if Submit.Endpoint != "" {
		cfg.Endpoint = Submit.Endpoint
	}
	return cfg
}
