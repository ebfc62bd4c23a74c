package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/validate"
)

// InitializeConfig applies environment overrides before validation runs.
func InitializeConfig() {
	if os.Getenv("DEBUG") == "true" {
		Global.LogLevel = "DEBUG"
		logging.Info("DEBUG environment variable detected, setting log level to DEBUG")
	}

	if Global.Cookie == "" {
		if cookie := os.Getenv(CookieEnvVar); cookie != "" {
			Global.Cookie = cookie
			logging.Debug("%s environment variable detected, using it as session cookie", CookieEnvVar)
		}
	}
}

// ValidateConfig validates and normalizes Global before the daemon starts.
// The API address is split into host and port; every derived package config
// is validated so errors surface before any listener is bound.
func ValidateConfig() error {
	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	netAddr, err := validate.ParseBindAddress(Global.APIAddr)
	if err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address: %w", err)
	}
	if err := validate.ValidatePortRange(netAddr.Port); err != nil {
		return fmt.Errorf("daemon requires specific API port (not 0): %w", err)
	}
	Global.APIAddr = netAddr.Host
	Global.APIPort = netAddr.Port

	// Names are validated if provided; generation happens in the daemon
	if Global.Name != "" {
		originalName := Global.Name
		Global.Name = strings.ToLower(Global.Name)
		if originalName != Global.Name {
			logging.Warn("Instance name '%s' converted to lowercase: '%s'", originalName, Global.Name)
		}
		if err := validate.InstanceNameFormat(Global.Name); err != nil {
			logging.Error("Invalid instance name '%s': %v", Global.Name, err)
			return fmt.Errorf("invalid instance name: %w", err)
		}
	}

	if err := validate.ValidatePositiveTimeout(Global.ShutdownTimeout, "shutdown timeout"); err != nil {
		return err
	}

	if err := Global.WorkerPoolConfig().Validate(); err != nil {
		return fmt.Errorf("invalid --workers: %w", err)
	}
	if err := Global.SchoolConfig().Validate(); err != nil {
		return fmt.Errorf("invalid school server settings: %w", err)
	}
	if err := Global.WithdrawalConfig().Validate(); err != nil {
		return fmt.Errorf("invalid --endpoint: %w", err)
	}

	if Global.Cookie == "" {
		logging.Warn("No session cookie set (--cookie or %s); the school server may reject withdrawals", CookieEnvVar)
	}

	return nil
}
