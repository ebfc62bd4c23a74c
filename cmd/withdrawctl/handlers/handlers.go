// Package handlers provides command handler functions for withdrawctl.
//
// - submit.go: run a batch in-process against the school server
// - validate.go: parse and list a plan without submitting it
// - daemon.go: send, status and cancel against a running withdrawd
//
// Handlers have the cobra RunE signature, print through the display package
// and return an error when the command should exit non-zero.
package handlers

import (
	"errors"
	"fmt"

	"github.com/naucourse/chooser/internal/withdrawal"
)

var (
	// ErrUnitsFailed is returned when at least one unit failed or was refused.
	ErrUnitsFailed = errors.New("withdrawal batch had failures")

	// ErrBatchCancelled is returned when the batch stopped before every unit reported.
	ErrBatchCancelled = errors.New("withdrawal batch cancelled")
)

// batchError turns a finished report of total units into the command's exit error.
func batchError(report withdrawal.Report, total int) error {
	refused := 0
	for _, r := range report.Succeeded {
		if !r.Accepted {
			refused++
		}
	}

	if len(report.Failed) > 0 || refused > 0 {
		return fmt.Errorf("%w: %d failed, %d refused of %d", ErrUnitsFailed, len(report.Failed), refused, total)
	}
	if report.Callbacks() < total {
		return fmt.Errorf("%w after %d of %d units", ErrBatchCancelled, report.Callbacks(), total)
	}
	return nil
}
