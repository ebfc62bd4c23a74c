package withdrawal

import (
	"fmt"
	"strings"

	"github.com/naucourse/chooser/internal/validate"
)

// DefaultEndpoint is the school's withdrawal handler, relative to the server root.
const DefaultEndpoint = "Servlet/DeleteCourseInfo.ashx"

// Config holds the Coordinator settings.
type Config struct {
	Endpoint string `json:"endpoint" mapstructure:"endpoint"` // Path every unit is posted to
}

// DefaultConfig returns the settings for the JWC withdrawal endpoint.
func DefaultConfig() *Config {
	return &Config{
		Endpoint: DefaultEndpoint,
	}
}

// Validate checks the endpoint is set and relative to the server root.
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.Endpoint, "endpoint"); err != nil {
		return err
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must be relative to the school server, got %q", c.Endpoint)
	}
	return nil
}
