package commands

import (
	"github.com/spf13/cobra"
)

// Submit command
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Withdraw every course in a plan",
	Long: `Withdraw every course in a plan file directly against the school server.

Requests run concurrently on a bounded worker pool; outcomes are printed in
plan order. Ctrl+C stops sending further courses and waits for the requests
already in flight. The command exits non-zero when any course failed, was
refused or was skipped.`,
	Example: `  # Withdraw with defaults
  withdrawctl submit --plan plan.yaml

  # Pace requests and allow slower replies
  withdrawctl submit --plan plan.yaml --rps=5 --timeout=30s`,
	Args: cobra.NoArgs,
}

// Validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a plan file and list its courses",
	Long: `Parse a YAML or JSON plan file, validate every entry and list the courses
in the order they would be sent. Nothing is sent to the school server.`,
	Example: `  withdrawctl validate --plan plan.yaml`,
	Args:    cobra.NoArgs,
}

// GetWithdrawalCommands returns the in-process command references
func GetWithdrawalCommands() (*cobra.Command, *cobra.Command) {
	return submitCmd, validateCmd
}
