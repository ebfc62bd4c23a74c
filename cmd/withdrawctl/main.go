// Package main provides the entry point for the withdrawal CLI (withdrawctl).
//
// INITIALIZATION FLOW:
// 1. Command structure setup
// 2. Global and command-specific flags bound to the config package
// 3. Handler assignment linking commands to their RunE functions
// 4. Execution with a non-zero exit code on any error
package main

import (
	"os"

	"github.com/naucourse/chooser/cmd/withdrawctl/commands"
	"github.com/naucourse/chooser/cmd/withdrawctl/config"
	"github.com/naucourse/chooser/cmd/withdrawctl/handlers"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd := commands.RootCmd

	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	commands.SetupCommands()

	commands.SetupGlobalFlags(rootCmd, &config.Global.APIAddr, &config.Global.LogLevel,
		&config.Global.ConnectTimeout, &config.Global.Verbose, &config.Global.Output, config.DefaultAPIAddr)

	submitCmd, validateCmd := commands.GetWithdrawalCommands()
	setupWithdrawalFlags(submitCmd, validateCmd)

	sendCmd, statusCmd, _, resourcesCmd := commands.GetDaemonCommands()
	setupDaemonFlags(sendCmd, statusCmd, resourcesCmd)

	setupCommandHandlers()
}

// setupCommandHandlers assigns RunE functions to commands
func setupCommandHandlers() {
	submitCmd, validateCmd := commands.GetWithdrawalCommands()
	sendCmd, statusCmd, cancelCmd, resourcesCmd := commands.GetDaemonCommands()

	submitCmd.RunE = handlers.HandleSubmit
	validateCmd.RunE = handlers.HandleValidate
	sendCmd.RunE = handlers.HandleSend
	statusCmd.RunE = handlers.HandleStatus
	cancelCmd.RunE = handlers.HandleCancel
	resourcesCmd.RunE = handlers.HandleResources
}

// setupWithdrawalFlags configures flags for the in-process commands
func setupWithdrawalFlags(submitCmd, validateCmd *cobra.Command) {
	submitCmd.Flags().StringVar(&config.Submit.PlanFile, "plan", "", "Plan file (.yaml, .yml or .json)")
	submitCmd.Flags().StringVar(&config.Submit.SchoolURL, "server", config.DefaultSchoolURL,
		"Root URL of the school's academic affairs (JWC) server")
	submitCmd.Flags().StringVar(&config.Submit.Endpoint, "endpoint", "",
		"Withdrawal handler relative to --server (defaults to Servlet/DeleteCourseInfo.ashx)")
	submitCmd.Flags().StringVar(&config.Submit.Cookie, "cookie", "",
		"Session cookie of the logged-in student (prefer the "+config.CookieEnvVar+" environment variable)")
	submitCmd.Flags().IntVar(&config.Submit.Workers, "workers", config.DefaultWorkers,
		"Number of withdrawal requests in flight at once (1-256)")
	submitCmd.Flags().DurationVar(&config.Submit.Timeout, "timeout", config.DefaultTimeout,
		"Timeout for a single withdrawal request")
	submitCmd.Flags().IntVar(&config.Submit.RetryCount, "retries", 0,
		"Retries per request when the school server cannot be reached (0-5)")
	submitCmd.Flags().Float64Var(&config.Submit.RequestsPerSecond, "rps", 0,
		"Maximum withdrawal requests per second (0 disables pacing)")
	submitCmd.MarkFlagRequired("plan")

	validateCmd.Flags().StringVar(&config.Validate.PlanFile, "plan", "", "Plan file (.yaml, .yml or .json)")
	validateCmd.MarkFlagRequired("plan")
}

// setupDaemonFlags configures flags for the daemon commands
func setupDaemonFlags(sendCmd, statusCmd, resourcesCmd *cobra.Command) {
	sendCmd.Flags().StringVar(&config.Send.PlanFile, "plan", "", "Plan file (.yaml, .yml or .json)")
	sendCmd.Flags().BoolVar(&config.Send.Wait, "wait", false, "Wait for the batch to finish and print its report")
	sendCmd.MarkFlagRequired("plan")

	// Cancel uses global flags only
	statusCmd.Flags().BoolVarP(&config.Status.Watch, "watch", "w", false, "Watch for live updates")
	resourcesCmd.Flags().BoolVarP(&config.Resources.Watch, "watch", "w", false, "Watch for live updates")
}

// main is the main entry point
func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
