// Package config provides common default configuration values shared by the
// withdrawal daemon, the CLI and the engine packages.
package config

import "time"

const (
	// DefaultBindAddr is the default bind address for the daemon API.
	// Loopback keeps the withdrawal control surface private by default.
	DefaultBindAddr = "127.0.0.1"

	// DefaultAPIPort is the default port for the daemon HTTP API
	DefaultAPIPort = 8009

	// DefaultLogLevel is the default log level for all components
	DefaultLogLevel = "INFO"

	// DefaultSchoolURL is the root of the school's academic affairs (JWC) server.
	// Withdrawal endpoints are resolved against it.
	DefaultSchoolURL = "http://jwc.nau.edu.cn/"

	// DefaultWorkers is the default number of concurrently running submissions.
	DefaultWorkers = 8

	// DefaultRequestTimeout bounds one withdrawal request to the school server.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultShutdownTimeout bounds graceful daemon shutdown.
	DefaultShutdownTimeout = 5 * time.Second
)
