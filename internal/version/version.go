// Package version provides centralized version information for the withdrawal
// daemon (withdrawd) and CLI (withdrawctl). Both follow semantic versioning
// and evolve independently.
package version

// WithdrawdVersion holds the current withdrawd daemon version.
// Format: major.minor.patch[-prerelease][+build]
const WithdrawdVersion = "0.1.0-dev"

// WithdrawctlVersion holds the current withdrawctl CLI version.
// Format: major.minor.patch[-prerelease][+build]
const WithdrawctlVersion = "0.1.0-dev"
