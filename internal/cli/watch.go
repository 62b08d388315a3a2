package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwhan/tallypad/internal/config"
	"github.com/jwhan/tallypad/internal/engine"
	"github.com/jwhan/tallypad/internal/lock"
	"github.com/jwhan/tallypad/internal/store"
)

// NewWatchCommand creates the watch command: a long-running process that
// holds the data-directory lock and applies the daily rollover the moment
// the date changes, instead of waiting for the next short-lived command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the rollover ticker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if rootOpts.DataDir != "" {
				cfg.DataDir = rootOpts.DataDir
			}
			if interval > 0 {
				cfg.TickInterval = interval
			}

			mgr, err := store.Open(cfg.DataDir, store.WithRetentionDays(cfg.RetentionDays))
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open data directory", err)
			}

			// watch keeps the lock for its whole lifetime; other tallypad
			// commands will refuse to run while it does.
			guard, err := lock.Acquire(cfg.DataDir)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to lock data directory", err)
			}
			defer func() {
				if relErr := guard.Release(); relErr != nil {
					slog.Error("error releasing lock", "error", relErr)
				}
			}()

			clock := engine.SystemClock{}
			eng, err := engine.Open(mgr, clock)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load state", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("watching for date change",
				"data_dir", cfg.DataDir,
				"interval", cfg.TickInterval,
				"date", eng.State().LastDate)

			ticker := time.NewTicker(cfg.TickInterval)
			defer ticker.Stop()

			for {
				rolled, err := eng.CheckRollover(clock.Now())
				if err != nil {
					return WrapExitError(ExitCommandError, "rollover failed", err)
				}
				if rolled {
					slog.Info("date changed, counters rolled over", "date", eng.State().LastDate)
				}

				select {
				case <-ctx.Done():
					slog.Info("shutting down")
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "tick interval (overrides config)")
	return cmd
}
