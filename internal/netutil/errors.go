// Package netutil provides network helpers shared by the daemon, the CLI and
// the school client.
//
// This file classifies network errors by type instead of by message so the
// checks behave the same across operating systems:
//   - address in use when binding the API port
//   - connection refused when the school server or daemon is down
//   - timeouts from net.Error or context deadlines
package netutil

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// IsAddressInUseError checks if an error indicates "address already in use".
func IsAddressInUseError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EADDRINUSE)
	}
	return false
}

// IsConnectionRefusedError checks if an error indicates "connection refused".
// Used to print a hint when the school server or the daemon is unreachable.
func IsConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return false
}

// IsTimeoutError reports whether err is a network timeout or a context
// deadline.
func IsTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
