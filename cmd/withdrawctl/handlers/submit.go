package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naucourse/chooser/cmd/withdrawctl/config"
	"github.com/naucourse/chooser/cmd/withdrawctl/display"
	"github.com/naucourse/chooser/cmd/withdrawctl/utils"
	"github.com/naucourse/chooser/internal/course"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/school"
	"github.com/naucourse/chooser/internal/withdrawal"
	"github.com/naucourse/chooser/internal/workerpool"
	"github.com/spf13/cobra"
)

// poolCloseTimeout bounds waiting for in-flight requests after the batch.
const poolCloseTimeout = 5 * time.Second

// HandleSubmit runs the plan in-process and prints every outcome. SIGINT
// cancels the remaining units; units already sent are still reported.
func HandleSubmit(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	if err := config.ValidateSubmitFlags(); err != nil {
		return err
	}

	plan, err := course.LoadPlan(config.Submit.PlanFile)
	if err != nil {
		return err
	}

	pool, err := workerpool.New(config.WorkerPoolConfig())
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), poolCloseTimeout)
		defer cancel()
		if err := pool.Close(ctx); err != nil {
			logging.Warn("Worker pool did not drain: %v", err)
		}
	}()

	client, err := school.NewClient(config.SchoolConfig())
	if err != nil {
		return fmt.Errorf("failed to create school client: %w", err)
	}
	if config.Submit.Cookie == "" {
		logging.Warn("No session cookie set (--cookie or %s); the school server may reject withdrawals", config.CookieEnvVar)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	report, err := runBatch(cmd.Context(), pool, school.NewWithdrawalSubmitter(client), plan, os.Stdout, sigCh)
	if err != nil {
		return err
	}

	display.DisplayReport(os.Stdout, report, plan.Len(), config.Global.Output)
	return batchError(report, plan.Len())
}

// runBatch submits plan on a fresh coordinator and blocks until the finish
// callback. A value on interrupt cancels the batch; ctx ending does the same
// and is returned as the error once the batch has wound down.
func runBatch(ctx context.Context, pool *workerpool.Pool, submitter withdrawal.Submitter, plan course.Plan, out io.Writer, interrupt <-chan os.Signal) (withdrawal.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	coordinator, err := withdrawal.NewCoordinator(pool, submitter, config.WithdrawalConfig())
	if err != nil {
		return withdrawal.Report{}, fmt.Errorf("failed to create withdrawal coordinator: %w", err)
	}

	tracker := withdrawal.NewTracker()
	progress := display.NewProgress(out, config.Global.Output, plan.Len())

	id, ok := coordinator.Start(plan, withdrawal.Tee(tracker, progress))
	if !ok {
		return withdrawal.Report{}, errors.New("withdrawal engine is busy")
	}
	tracker.SetID(id)
	logging.Info("Submitting %d withdrawals in batch %s", plan.Len(), logging.FormatBatchID(id))

	var ctxErr error
	done := ctx.Done()
	for {
		select {
		case <-tracker.Done():
			return tracker.Report(), ctxErr
		case sig := <-interrupt:
			logging.Warn("Received %v, cancelling remaining withdrawals", sig)
			progress.Notice("Interrupted, waiting for requests already sent...")
			coordinator.Cancel()
			interrupt = nil
		case <-done:
			ctxErr = ctx.Err()
			coordinator.Cancel()
			done = nil
		}
	}
}
