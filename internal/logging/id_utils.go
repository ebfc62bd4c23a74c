// Package logging provides ID formatting utilities for consistent ID display
// across all logging contexts.
//
// Debug logs carry full identifiers for traceability; every other level shows
// the short form so batch progress lines stay readable.
package logging

import (
	"github.com/charmbracelet/log"
	"github.com/naucourse/chooser/internal/utils"
)

// FormatID formats an ID for logging based on the current log level context.
// Returns the full ID when debug logging is enabled, the truncated ID otherwise.
func FormatID(id string) string {
	if stderr().GetLevel() <= log.DebugLevel {
		return id
	}
	return utils.TruncateIDSafe(id)
}

// FormatBatchID formats a batch ID for logging with context-aware truncation.
//
// Usage: logging.Info("Batch %s accepted", logging.FormatBatchID(batchID))
func FormatBatchID(batchID string) string {
	return FormatID(batchID)
}
