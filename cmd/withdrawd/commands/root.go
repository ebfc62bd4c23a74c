// Package commands provides the CLI command structure for the withdrawal daemon.
//
// The daemon is a single root command. Flags are parsed into config.Global,
// checked in PreRunE and handed to daemon.Run, which owns the process until a
// shutdown signal arrives.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/naucourse/chooser/cmd/withdrawd/config"
	"github.com/naucourse/chooser/cmd/withdrawd/daemon"
	"github.com/naucourse/chooser/cmd/withdrawd/utils"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/version"
	"github.com/spf13/cobra"
)

// Global variable to track log file handle for cleanup
var logFileHandle *os.File

// CleanupLogFile closes the log file handle if it exists
func CleanupLogFile() {
	if logFileHandle != nil {
		if err := logFileHandle.Close(); err != nil {
			// Logging may point at the file being closed
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		logFileHandle = nil
	}
}

// Root command for the withdrawal daemon
var RootCmd = &cobra.Command{
	Use:   "withdrawd",
	Short: "Course withdrawal daemon for the JWC server",
	Long: `Withdrawal daemon (withdrawd) submits batches of course withdrawals to the
school's academic affairs server concurrently and reports every outcome.

One batch runs at a time. Batches are started, watched and cancelled through
the HTTP API under /api/v1/withdrawals.`,
	Version:      version.WithdrawdVersion,
	SilenceUsage: true, // Don't show usage on errors
	Example: `  # Start with defaults, session cookie from the environment
  CHOOSER_COOKIE='ASP.NET_SessionId=...' withdrawd

  # Expose the API and pace requests
  withdrawd --api=0.0.0.0:8009 --workers=4 --rps=10

  # Log to a file with debug output
  withdrawd --log-level=DEBUG --log-file=/var/log/withdrawd.log`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Display logo first, before any validation or logging
		utils.DisplayLogo(version.WithdrawdVersion)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		CheckExplicitFlags(cmd)

		if config.Global.IsExplicitlySet(config.LogFileField) && config.Global.LogFile != "" {
			logDir := filepath.Dir(config.Global.LogFile)
			if err := os.MkdirAll(logDir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
			}

			var err error
			logFileHandle, err = os.OpenFile(config.Global.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", config.Global.LogFile, err)
			}

			logging.SetOutput(logFileHandle)
		}

		// Set the level before InitializeConfig logs anything, then again
		// for the DEBUG override
		logging.SetLevel(config.Global.LogLevel)
		config.InitializeConfig()
		logging.SetLevel(config.Global.LogLevel)
		if err := config.ValidateConfig(); err != nil {
			CleanupLogFile()
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer CleanupLogFile()
		return daemon.Run()
	},
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	SetupFlags(RootCmd)
}
