// Package utils provides watch mode for the status command.
//
// Watch mode redraws the output every refresh interval until SIGINT or
// SIGTERM, so an operator can follow a running batch without re-running the
// command.
package utils

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naucourse/chooser/internal/logging"
)

// WatchInterval is the refresh period of RunWithWatch.
const WatchInterval = 2 * time.Second

// RunWithWatch executes fn once, or repeatedly with a cleared screen until
// interrupted. Errors during a refresh are logged and the loop keeps going.
func RunWithWatch(fn func() error, enableWatch bool) error {
	if !enableWatch {
		return fn()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(WatchInterval)
	defer ticker.Stop()

	fmt.Print("\033[2J\033[H") // Clear screen and move cursor to top
	if err := fn(); err != nil {
		return err
	}

	for {
		select {
		case <-ticker.C:
			fmt.Print("\033[2J\033[H")
			if err := fn(); err != nil {
				logging.Error("Error updating display: %v", err)
				continue
			}
		case <-sigChan:
			fmt.Println("\nWatch mode interrupted")
			return nil
		}
	}
}
