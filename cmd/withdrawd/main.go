// Package main implements the withdrawal daemon (withdrawd).
// withdrawd keeps a worker pool and a withdrawal engine running behind a
// small HTTP API so batches can be started, watched and cancelled remotely.
package main

import (
	"os"

	"github.com/naucourse/chooser/cmd/withdrawd/commands"
)

// Main entry point
func main() {
	commands.SetupCommands()
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
