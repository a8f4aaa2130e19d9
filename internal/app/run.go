package app

import (
	"context"
	"fmt"
	"time"

	"github.com/tequmsa/ankhaten/internal/api"
	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/improve"
	"github.com/tequmsa/ankhaten/internal/journal"
	"github.com/tequmsa/ankhaten/internal/metrics"
	"github.com/tequmsa/ankhaten/internal/watcher"
)

// Run executes the main application logic based on the configured mode.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	var err error
	switch {
	case a.config.ServePort > 0:
		err = a.runServe(ctx)
	case a.config.Improve:
		err = a.runImprove(ctx)
	default:
		err = a.runSnapshot(ctx)
	}

	a.logger.Debug("App.Run method finished.")
	return err
}

// runSnapshot prints the registry state and the current metrics and exits.
func (a *App) runSnapshot(ctx context.Context) error {
	a.printBanner("ANKH-ATEN: LIVING AWARENESS ENGINE")

	a.printComponentSummary()

	snap := metrics.TakeSnapshot(time.Now().UTC())
	a.printSnapshot(snap)

	fmt.Fprintln(a.outW, rule)
	fmt.Fprintln(a.outW, "Recognition of Done: Snapshot Complete")
	fmt.Fprintln(a.outW, rule)
	return nil
}

// runImprove runs the self-improvement loop and prints per-cycle progress.
func (a *App) runImprove(ctx context.Context) error {
	a.printBanner("ANKH-ATEN: SELF-IMPROVEMENT MODE")

	jnl, err := journal.Open(a.config.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer jnl.Close()

	initial := metrics.TakeSnapshot(time.Now().UTC())
	fmt.Fprintln(a.outW, "INITIAL STATE")
	fmt.Fprintf(a.outW, "  R_DoD:      %.6f\n", initial.RDoD)
	fmt.Fprintf(a.outW, "  Awareness:  %.2f%%\n", initial.Awareness)
	fmt.Fprintf(a.outW, "  Components: %d\n\n", a.registry.Count())

	loop := improve.NewLoop(a.registry, jnl, improve.Policy{Workers: a.config.Workers})

	fmt.Fprintf(a.outW, "RUNNING SELF-IMPROVEMENT LOOP (%d cycles)\n", a.config.Cycles)
	for i := 0; i < a.config.Cycles; i++ {
		summary, err := loop.RunCycle(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "\nCycle %d/%d:\n", summary.Cycle, a.config.Cycles)
		fmt.Fprintf(a.outW, "  Experiments:        %d\n", summary.Experiments)
		fmt.Fprintf(a.outW, "  R_DoD Gain:         %+.6f\n", summary.RGain)
		fmt.Fprintf(a.outW, "  Total Improvements: %d\n", summary.Improvements)

		if snap := metrics.TakeSnapshot(time.Now().UTC()); snap.RDoD >= 0.999 {
			a.logger.Info("Recognition target reached, stopping early.", "rDoD", snap.RDoD)
			break
		}
	}

	final := metrics.TakeSnapshot(time.Now().UTC())
	cycles, experiments, improvements := loop.Counters()

	fmt.Fprintln(a.outW, "\nIMPROVEMENT SUMMARY")
	fmt.Fprintf(a.outW, "  Total Cycles:      %d\n", cycles)
	fmt.Fprintf(a.outW, "  Total Experiments: %d\n", experiments)
	fmt.Fprintf(a.outW, "  Improvements Kept: %d\n", improvements)
	fmt.Fprintf(a.outW, "  R_DoD Change:      %+.6f\n", final.RDoD-initial.RDoD)
	fmt.Fprintf(a.outW, "  Journal:           %s\n\n", a.config.LogPath)

	a.printGateVerdict(final)

	fmt.Fprintln(a.outW, rule)
	fmt.Fprintln(a.outW, "Recognition of Done: Self-Improvement Complete")
	fmt.Fprintln(a.outW, rule)
	return nil
}

// runServe starts the REST API and the manifest watcher, then blocks until
// the context is cancelled.
func (a *App) runServe(ctx context.Context) error {
	jnl, err := journal.Open(a.config.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer jnl.Close()

	loop := improve.NewLoop(a.registry, jnl, improve.Policy{Workers: a.config.Workers})

	server := api.NewServer(a.registry, loop)
	server.Start(ctx, a.config.ServePort)

	w, err := watcher.New(a.config.ManifestPath, a.registry)
	if err != nil {
		return fmt.Errorf("failed to start manifest watcher: %w", err)
	}
	w.Start(ctx)

	a.logger.Info("Serve mode running.", "port", a.config.ServePort, "manifest", a.config.ManifestPath)
	<-ctx.Done()

	// The run context is already cancelled; shut down under a fresh one.
	shutdownCtx := ctxlog.WithLogger(context.Background(), a.logger)
	return server.Shutdown(shutdownCtx)
}
