// Package commands contains Cobra CLI command definitions for withdrawd.
package commands

import (
	"github.com/naucourse/chooser/cmd/withdrawd/config"
	"github.com/spf13/cobra"
)

// SetupFlags configures all command line flags for the daemon
func SetupFlags(cmd *cobra.Command) {
	// API flags
	cmd.Flags().StringVar(&config.Global.APIAddr, "api", config.DefaultAPI,
		"Address and port for HTTP API server (e.g., "+config.DefaultAPI+")\n"+
			"If not specified, defaults to "+config.DefaultAPI+" and falls back to the next free port")

	cmd.Flags().StringVar(&config.Global.Name, "name", "",
		"Instance name shown in logs and health output (generated if not specified)")

	// School server flags
	cmd.Flags().StringVar(&config.Global.SchoolURL, "server", config.DefaultSchoolURL,
		"Root URL of the school's academic affairs (JWC) server")
	cmd.Flags().StringVar(&config.Global.Endpoint, "endpoint", "",
		"Withdrawal handler relative to --server (defaults to Servlet/DeleteCourseInfo.ashx)")
	cmd.Flags().StringVar(&config.Global.Cookie, "cookie", "",
		"Session cookie of the logged-in student (prefer the "+config.CookieEnvVar+" environment variable)")
	cmd.Flags().DurationVar(&config.Global.Timeout, "timeout", config.DefaultTimeout,
		"Timeout for a single withdrawal request")
	cmd.Flags().IntVar(&config.Global.RetryCount, "retries", 0,
		"Retries per request when the school server cannot be reached (0-5)")
	cmd.Flags().Float64Var(&config.Global.RequestsPerSecond, "rps", 0,
		"Maximum withdrawal requests per second (0 disables pacing)")

	// Engine flags
	cmd.Flags().IntVar(&config.Global.Workers, "workers", config.DefaultWorkers,
		"Number of withdrawal requests in flight at once (1-256)")

	// Operational flags
	cmd.Flags().DurationVar(&config.Global.ShutdownTimeout, "shutdown-timeout", config.DefaultShutdownTimeout,
		"Grace period for in-flight requests when the daemon stops")
	cmd.Flags().StringVar(&config.Global.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&config.Global.LogFile, "log-file", "",
		"Write all logs to this file instead of stdout/stderr")
}

// CheckExplicitFlags checks if flags were explicitly set by the user
func CheckExplicitFlags(cmd *cobra.Command) {
	config.Global.SetExplicitlySet(config.APIAddrField, cmd.Flags().Changed("api"))
	config.Global.SetExplicitlySet(config.LogFileField, cmd.Flags().Changed("log-file"))
}
