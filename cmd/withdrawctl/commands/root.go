// Package commands provides the command tree for withdrawctl.
//
// COMMAND STRUCTURE:
//   - submit: run a withdrawal plan in-process against the school server
//   - validate: check a plan file and list its units
//   - send, status, cancel: drive a running withdrawd daemon
package commands

import (
	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "withdrawctl",
	Short: "CLI for concurrent course withdrawal",
	Long: `withdrawctl withdraws a batch of courses from the school's academic
affairs (JWC) server. Every course is sent concurrently and each outcome is
printed as soon as it arrives, in plan order.

Run a plan directly with 'submit', or hand it to a running withdrawd daemon
with 'send'.`,
	SilenceUsage: true,
	Example: `  # Check a plan before sending it
  withdrawctl validate --plan plan.yaml

  # Withdraw in-process with 4 concurrent requests
  CHOOSER_COOKIE='ASP.NET_SessionId=...' withdrawctl submit --plan plan.yaml --workers=4

  # Hand the plan to the daemon and wait for the result
  withdrawctl send --plan plan.json --wait

  # Watch the daemon
  withdrawctl status --watch

  # Output in JSON format
  withdrawctl -o json submit --plan plan.yaml`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(submitCmd)
	RootCmd.AddCommand(validateCmd)
	RootCmd.AddCommand(sendCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(cancelCmd)
	RootCmd.AddCommand(resourcesCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, apiAddrPtr *string, logLevelPtr *string,
	connectTimeoutPtr *int, verbosePtr *bool, outputPtr *string, defaultAPIAddr string) {
	rootCmd.PersistentFlags().StringVar(apiAddrPtr, "api", defaultAPIAddr,
		"withdrawd API server address")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().IntVar(connectTimeoutPtr, "connect-timeout", 8,
		"Daemon connection timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
}
