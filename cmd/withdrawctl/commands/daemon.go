package commands

import (
	"github.com/spf13/cobra"
)

// Send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Hand a plan to a running withdrawd",
	Long: `Post a plan to the withdrawd daemon at --api. The daemon accepts one batch
at a time; a send while another batch runs is refused.

With --wait the command polls the daemon until the batch finishes and exits
non-zero when any course failed.`,
	Example: `  withdrawctl send --plan plan.json
  withdrawctl --api=192.168.1.20:8009 send --plan plan.yaml --wait`,
	Args: cobra.NoArgs,
}

// Status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon's engine state and last batch",
	Example: `  withdrawctl status
  withdrawctl status --watch`,
	Args: cobra.NoArgs,
}

// Cancel command
var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the daemon's running batch",
	Long: `Ask the daemon to stop its running batch. Courses not yet sent are skipped;
requests already in flight still complete and are reported.`,
	Args: cobra.NoArgs,
}

// Resources command
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Show the daemon's process and worker pool usage",
	Long: `Show a snapshot of the withdrawd process: host memory, Go runtime counters
and how many withdrawal requests the worker pool is running or holding back.`,
	Example: `  withdrawctl resources
  withdrawctl -o json resources`,
	Args: cobra.NoArgs,
}

// GetDaemonCommands returns the daemon command references
func GetDaemonCommands() (*cobra.Command, *cobra.Command, *cobra.Command, *cobra.Command) {
	return sendCmd, statusCmd, cancelCmd, resourcesCmd
}
