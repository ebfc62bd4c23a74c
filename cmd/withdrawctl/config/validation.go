// Package config provides configuration management for the withdrawctl CLI.
package config

import (
	"fmt"
	"os"

	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/validate"
	"github.com/spf13/cobra"
)

// ValidateGlobalFlags validates all global flags before running any command
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := ValidateAPIAddress(); err != nil {
		return err
	}

	if err := ValidateOutputFormat(); err != nil {
		return err
	}

	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	if Global.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %d", Global.ConnectTimeout)
	}

	return nil
}

// ValidateAPIAddress validates the --api flag
func ValidateAPIAddress() error {
	netAddr, err := validate.ParseBindAddress(Global.APIAddr)
	if err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address - expected format: host:port (e.g., %s)", DefaultAPIAddr)
	}

	// Reject unroutable 0.0.0.0 target for client connections
	if netAddr.Host == "0.0.0.0" {
		logging.Error("Unroutable API address '0.0.0.0:%d' - cannot connect to 0.0.0.0", netAddr.Port)
		return fmt.Errorf("unroutable API address - use 127.0.0.1 or a specific IP address")
	}

	// Client must connect to specific port (not 0)
	if err := validate.ValidatePortRange(netAddr.Port); err != nil {
		logging.Error("Invalid API port %d: %v", netAddr.Port, err)
		return fmt.Errorf("API port must be between 1-65535")
	}

	return nil
}

// ValidateOutputFormat validates the --output flag
func ValidateOutputFormat() error {
	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
	}
	if !validOutputs[Global.Output] {
		logging.Error("Invalid output format '%s' - valid formats are: table, json", Global.Output)
		return fmt.Errorf("invalid output format - valid: table, json")
	}
	return nil
}

// ValidateSubmitFlags checks the in-process submit settings. The session
// cookie falls back to the environment when --cookie is not given.
func ValidateSubmitFlags() error {
	if err := validate.ValidateRequiredString(Submit.PlanFile, "--plan"); err != nil {
		return err
	}

	if Submit.Cookie == "" {
		Submit.Cookie = os.Getenv(CookieEnvVar)
	}

	if err := WorkerPoolConfig().Validate(); err != nil {
		return fmt.Errorf("invalid --workers: %w", err)
	}
	if err := SchoolConfig().Validate(); err != nil {
		return fmt.Errorf("invalid school server settings: %w", err)
	}
	if err := WithdrawalConfig().Validate(); err != nil {
		return fmt.Errorf("invalid --endpoint: %w", err)
	}
	return nil
}
