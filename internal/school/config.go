// Package school talks to the university's academic affairs (JWC) server.
// It wraps a resty client with request pacing and implements
// withdrawal.Submitter on top of it.
package school

import (
	"fmt"
	"time"

	"github.com/naucourse/chooser/internal/config"
	"github.com/naucourse/chooser/internal/validate"
	"github.com/naucourse/chooser/internal/version"
)

const (
	// MaxRetryCount bounds connection level retries per request.
	MaxRetryCount = 5

	// MaxRequestsPerSecond keeps pacing below what the school server tolerates.
	MaxRequestsPerSecond = 100
)

// Config holds the school server connection settings.
type Config struct {
	BaseURL           string        `json:"base_url" mapstructure:"base_url"`                       // Server root every endpoint is resolved against
	Timeout           time.Duration `json:"timeout" mapstructure:"timeout"`                         // Per-request timeout
	RetryCount        int           `json:"retry_count" mapstructure:"retry_count"`                 // Retries when no response arrived at all
	RequestsPerSecond float64       `json:"requests_per_second" mapstructure:"requests_per_second"` // 0 disables pacing
	UserAgent         string        `json:"user_agent" mapstructure:"user_agent"`
	Cookie            string        `json:"-" mapstructure:"cookie"` // Session cookie of the logged-in student
}

// DefaultConfig returns settings for the production JWC server.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           config.DefaultSchoolURL,
		Timeout:           config.DefaultRequestTimeout,
		RetryCount:        0,
		RequestsPerSecond: 0,
		UserAgent:         fmt.Sprintf("chooser/%s", version.WithdrawdVersion),
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	if err := validate.ValidateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if err := validate.ValidatePositiveTimeout(c.Timeout, "request timeout"); err != nil {
		return err
	}
	if err := validate.ValidateIntRange(c.RetryCount, 0, MaxRetryCount, "retry count"); err != nil {
		return err
	}
	if c.RequestsPerSecond < 0 || c.RequestsPerSecond > MaxRequestsPerSecond {
		return fmt.Errorf("requests per second must be between 0 and %d, got %g",
			MaxRequestsPerSecond, c.RequestsPerSecond)
	}
	if err := validate.ValidateRequiredString(c.UserAgent, "user agent"); err != nil {
		return err
	}
	return nil
}
