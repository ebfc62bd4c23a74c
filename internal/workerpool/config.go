// Package workerpool provides the bounded worker pool that runs withdrawal
// submissions. Each submitted task returns a Future that can be awaited once
// the task resolves or cancelled before it starts.
package workerpool

import (
	"github.com/naucourse/chooser/internal/config"
	"github.com/naucourse/chooser/internal/validate"
)

const (
	// MinWorkers is the smallest usable pool.
	MinWorkers = 1

	// MaxWorkers caps concurrency so a single daemon cannot flood the school server.
	MaxWorkers = 256
)

// Config holds the worker pool sizing.
type Config struct {
	Workers int `json:"workers" mapstructure:"workers"` // Tasks allowed to run at once
}

// DefaultConfig returns a Config sized for a typical withdrawal batch (a
// handful of courses per course type).
func DefaultConfig() *Config {
	return &Config{
		Workers: config.DefaultWorkers,
	}
}

// Validate checks that the worker count is within bounds.
func (c *Config) Validate() error {
	return validate.ValidateIntRange(c.Workers, MinWorkers, MaxWorkers, "worker count")
}
