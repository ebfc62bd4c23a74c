// Package utils provides utility functions for the withdrawctl CLI.
// This file contains logging setup.
package utils

import (
	"os"

	"github.com/naucourse/chooser/cmd/withdrawctl/config"
	"github.com/naucourse/chooser/internal/logging"
)

// SetupLogging configures CLI logging behavior based on environment and config.
// Enables debug output when DEBUG=true. Otherwise engine logs stay quiet below
// ERROR unless --log-level or --verbose asks for more, so per-unit output stays readable.
func SetupLogging() {
	if os.Getenv("DEBUG") == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return
	}

	level := config.Global.LogLevel
	if config.Global.Verbose && level == "ERROR" {
		level = "INFO"
	}

	if level == "ERROR" {
		logging.SuppressOutput()
		return
	}
	logging.RestoreOutput()
	logging.SetLevel(level)
}
