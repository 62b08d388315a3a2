package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jwhan/tallypad/internal/config"
	"github.com/jwhan/tallypad/internal/engine"
	"github.com/jwhan/tallypad/internal/lock"
	"github.com/jwhan/tallypad/internal/store"
)

// withEngine runs fn against a fully wired engine: config resolved, data
// directory locked for the duration, state loaded, and the pending
// rollover check applied. Every command goes through here so the process
// model stays uniform.
func withEngine(cmd *cobra.Command, opts *RootOptions, fn func(eng *engine.Engine, out *OutputFormatter) error) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	mgr, err := store.Open(cfg.DataDir, store.WithRetentionDays(cfg.RetentionDays))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open data directory", err)
	}

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

	// Short-lived commands have no ticker; the pending rollover check
	// runs once at startup instead.
	rolled, err := eng.CheckRollover(clock.Now())
	if err != nil {
		return WrapExitError(ExitCommandError, "rollover failed", err)
	}
	if rolled {
		slog.Info("date changed, counters rolled over", "date", eng.State().LastDate)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return fn(eng, out)
}
