package school

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"https", func(c *Config) { c.BaseURL = "https://jwc.example.edu/" }, false},
		{"paced", func(c *Config) { c.RequestsPerSecond = 2.5 }, false},
		{"empty url", func(c *Config) { c.BaseURL = "" }, true},
		{"ftp url", func(c *Config) { c.BaseURL = "ftp://jwc.example.edu/" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative retries", func(c *Config) { c.RetryCount = -1 }, true},
		{"too many retries", func(c *Config) { c.RetryCount = MaxRetryCount + 1 }, true},
		{"negative rate", func(c *Config) { c.RequestsPerSecond = -1 }, true},
		{"rate too high", func(c *Config) { c.RequestsPerSecond = MaxRequestsPerSecond + 1 }, true},
		{"no user agent", func(c *Config) { c.UserAgent = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.RetryCount)
	assert.Contains(t, cfg.UserAgent, "chooser/")
}
