package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/naucourse/chooser/cmd/withdrawctl/client"
	"github.com/naucourse/chooser/cmd/withdrawctl/config"
	"github.com/naucourse/chooser/cmd/withdrawctl/display"
	"github.com/naucourse/chooser/cmd/withdrawctl/utils"
	apihandlers "github.com/naucourse/chooser/internal/api/handlers"
	"github.com/naucourse/chooser/internal/course"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/validate"
	"github.com/naucourse/chooser/internal/withdrawal"
	"github.com/spf13/cobra"
)

// pollInterval is how often send --wait asks the daemon for progress.
var pollInterval = time.Second

// statusSource is the part of the API client waitForBatch needs.
type statusSource interface {
	Status() (*apihandlers.StatusResponse, error)
}

// HandleSend submits the plan to the daemon and optionally waits for it.
func HandleSend(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	if err := validate.ValidateRequiredString(config.Send.PlanFile, "--plan"); err != nil {
		return err
	}

	plan, err := course.LoadPlan(config.Send.PlanFile)
	if err != nil {
		return err
	}

	apiClient := client.CreateAPIClient()
	logging.Info("Sending %d withdrawals to %s", plan.Len(), apiClient.BaseURL())

	resp, err := apiClient.Submit(plan)
	if err != nil {
		if errors.Is(err, client.ErrBatchInFlight) {
			logging.Error("Daemon at %s is busy; check 'withdrawctl status' or cancel the running batch", config.Global.APIAddr)
		}
		return err
	}

	if !config.Send.Wait {
		display.DisplayAccepted(os.Stdout, resp, config.Global.Output)
		return nil
	}
	if config.Global.Output != "json" {
		display.DisplayAccepted(os.Stdout, resp, config.Global.Output)
	}

	start := time.Now()
	report, err := waitForBatch(cmd.Context(), apiClient, resp.BatchID, pollInterval)
	if err != nil {
		return err
	}
	logging.Info("Batch %s finished after %s", logging.FormatBatchID(resp.BatchID), display.Elapsed(start))

	display.DisplayReport(os.Stdout, *report, resp.Units, config.Global.Output)
	return batchError(*report, resp.Units)
}

// waitForBatch polls src until the last report is batchID and finished.
// Transient status errors are logged and retried.
func waitForBatch(ctx context.Context, src statusSource, batchID string, interval time.Duration) (*withdrawal.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := src.Status()
		switch {
		case err != nil:
			logging.Warn("Failed to fetch batch status: %v", err)
		case status.Last == nil || status.Last.ID != batchID:
			return nil, fmt.Errorf("batch %s is no longer the daemon's last batch", batchID)
		case status.Last.Finished:
			return status.Last, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// HandleStatus prints the daemon's engine state and last batch.
func HandleStatus(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	apiClient := client.CreateAPIClient()
	return utils.RunWithWatch(func() error {
		if config.Global.Output != "json" {
			health, err := apiClient.Health()
			if err != nil {
				return err
			}
			display.DisplayHealth(os.Stdout, health)
		}

		status, err := apiClient.Status()
		if err != nil {
			return err
		}
		display.DisplayStatus(os.Stdout, status, config.Global.Output)
		return nil
	}, config.Status.Watch)
}

// HandleResources prints the daemon's process snapshot.
func HandleResources(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	apiClient := client.CreateAPIClient()
	return utils.RunWithWatch(func() error {
		snap, err := apiClient.Resources()
		if err != nil {
			return err
		}
		display.DisplayResources(os.Stdout, snap, config.Global.Output)
		return nil
	}, config.Resources.Watch)
}

// HandleCancel asks the daemon to stop its running batch.
func HandleCancel(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	resp, err := client.CreateAPIClient().Cancel()
	if err != nil {
		return err
	}

	if config.Global.Output == "json" {
		display.DisplayJSON(os.Stdout, resp)
		return nil
	}
	if resp.Active {
		fmt.Printf("Cancel requested for batch %s\n", resp.BatchID)
	} else {
		fmt.Println("No withdrawal batch is running")
	}
	return nil
}
