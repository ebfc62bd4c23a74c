// Package daemon wires the withdrawal daemon's components together and runs
// them until a shutdown signal arrives.
package daemon

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naucourse/chooser/cmd/withdrawd/config"
	"github.com/naucourse/chooser/internal/api"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/names"
	"github.com/naucourse/chooser/internal/netutil"
	"github.com/naucourse/chooser/internal/school"
	"github.com/naucourse/chooser/internal/version"
	"github.com/naucourse/chooser/internal/withdrawal"
	"github.com/naucourse/chooser/internal/workerpool"
)

// idlePollInterval is how often shutdown checks whether the cancelled batch
// has finished.
const idlePollInterval = 20 * time.Millisecond

// Run starts the daemon and blocks until SIGINT or SIGTERM.
//
// Startup order: worker pool, school client, coordinator, API listener, API
// server. Shutdown runs in reverse: the active batch is cancelled, the API
// stops accepting requests, and the pool is closed within the shutdown
// timeout so running withdrawals either finish or have their context
// cancelled.
func Run() error {
	logging.SetLevel(config.Global.LogLevel)

	// net/http reports accept and TLS errors through the standard logger
	logging.RedirectStandardLog(logging.NewLevelWriter("WARN", "http"))

	if config.Global.Name == "" {
		config.Global.Name = names.Generate()
		logging.Info("Generated instance name: %s", config.Global.Name)
	}
	logging.Info("Starting withdrawal daemon %s v%s", config.Global.Name, version.WithdrawdVersion)

	pool, err := workerpool.New(config.Global.WorkerPoolConfig())
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}

	client, err := school.NewClient(config.Global.SchoolConfig())
	if err != nil {
		closePool(pool)
		return fmt.Errorf("failed to create school client: %w", err)
	}

	coordinator, err := withdrawal.NewCoordinator(pool, school.NewWithdrawalSubmitter(client), config.Global.WithdrawalConfig())
	if err != nil {
		closePool(pool)
		return fmt.Errorf("failed to create withdrawal coordinator: %w", err)
	}

	listener, err := bindAPIListener()
	if err != nil {
		closePool(pool)
		return err
	}

	apiServer, err := api.NewServerWithListener(config.Global.APIConfig(coordinator, pool), listener)
	if err != nil {
		listener.Close()
		closePool(pool)
		return fmt.Errorf("failed to create API server: %w", err)
	}
	if err := apiServer.Start(); err != nil {
		listener.Close()
		closePool(pool)
		return fmt.Errorf("failed to start API server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	logging.Success("Withdrawal daemon started successfully")
	logging.Info("Daemon running... Press Ctrl+C to shutdown")
	logging.Info("  - Instance: %s", config.Global.Name)
	logging.Info("  - HTTP API: %s", apiServer.Addr())
	logging.Info("  - School server: %s", client.BaseURL())
	logging.Info("  - Workers: %d", pool.Workers())

	sig := <-sigCh
	logging.Info("Received signal: %v", sig)
	logging.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Global.ShutdownTimeout)
	defer cancel()

	if coordinator.Busy() {
		logging.Warn("Cancelling active withdrawal batch %s", logging.FormatBatchID(coordinator.Stats().BatchID))
		coordinator.Cancel()
	}

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("Error shutting down API server: %v", err)
	}

	if err := pool.Close(shutdownCtx); err != nil {
		logging.Warn("Worker pool did not drain before shutdown timeout: %v", err)
	}

	if err := waitIdle(shutdownCtx, coordinator); err != nil {
		logging.Warn("Withdrawal batch still active at exit: %v", err)
	}

	logging.Success("Withdrawal daemon shutdown completed")
	return nil
}

// bindAPIListener reserves the API port. An explicit --api must bind exactly;
// the default address moves to the next free port when taken.
func bindAPIListener() (net.Listener, error) {
	addr, port := config.Global.APIAddr, config.Global.APIPort

	if config.Global.IsExplicitlySet(config.APIAddrField) {
		logging.Info("Binding API listener to explicit port %d", port)
		listener, err := netutil.BindTCP(addr, port)
		if err != nil {
			return nil, fmt.Errorf("failed to bind API listener to %s:%d: %w", addr, port, err)
		}
		return listener, nil
	}

	listener, actualPort, err := netutil.BindTCPWithFallback(addr, port)
	if err != nil {
		return nil, fmt.Errorf("failed to bind API listener: %w", err)
	}
	if actualPort != port {
		logging.Warn("Default API port %d was busy, bound to port %d", port, actualPort)
		config.Global.APIPort = actualPort
	}
	return listener, nil
}

// waitIdle blocks until the coordinator has no active batch or ctx ends.
func waitIdle(ctx context.Context, c *withdrawal.Coordinator) error {
	ticker := time.NewTicker(idlePollInterval)
	defer ticker.Stop()

	for c.Busy() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func closePool(pool *workerpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Global.ShutdownTimeout)
	defer cancel()
	if err := pool.Close(ctx); err != nil {
		logging.Warn("Error closing worker pool: %v", err)
	}
}
