package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/internal/checker"
	"github.com/hostwatch/hostwatch/internal/probe"
	"github.com/hostwatch/hostwatch/internal/render"
	"github.com/hostwatch/hostwatch/pkg/models"
)

type App struct {
	lo   *slog.Logger
	opts Opts

	chk      *checker.Checker
	renderer render.Renderer
	console  *render.Console
	reporter probe.Reporter

	info probe.HostInfo
}

type Opts struct {
	Format       string
	Interval     time.Duration
	Watch        bool
	Verbose      bool
	ProbeTimeout time.Duration
	Thresholds   probe.Thresholds
	Services     []string
	ReportPath   string
}

// runOnce executes a single cycle and returns the process exit code
// derived from the cycle severity.
func (app *App) runOnce(ctx context.Context) int {
	snap, sev, err := app.cycle(ctx)
	if err != nil {
		app.lo.Error("check cycle failed", "error", err)
		return exitFatal
	}

	if err := app.emit(snap, sev); err != nil {
		app.lo.Error("rendering failed", "error", err)
		return exitFatal
	}

	return sev.ExitCode()
}

// watch repeats cycles on the configured interval until the context is
// cancelled. The sleep is the only suspension point and it is
// interruptible. Returns 0 on cancellation so the caller can substitute
// the signal sentinel; the last severity never leaks into the exit code.
func (app *App) watch(ctx context.Context) int {
	var lastSnap *models.Snapshot

	app.lo.Info("starting watch loop", "interval", app.opts.Interval)
	for ctx.Err() == nil {
		snap, sev, err := app.cycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			app.lo.Error("check cycle failed", "error", err)
			return exitFatal
		}
		lastSnap = snap

		if err := app.emit(snap, sev); err != nil {
			app.lo.Error("rendering failed", "error", err)
		}

		select {
		case <-time.After(app.opts.Interval):
			if app.console != nil {
				app.console.Clear()
			}
		case <-ctx.Done():
		}
	}

	// Pending flush before handing control back to the signal path.
	if lastSnap != nil {
		if err := app.writeReport(lastSnap); err != nil {
			app.lo.Error("report write failed", "error", err)
		}
	}
	app.lo.Info("quitting watch loop")
	return 0
}

// cycle refreshes the host identity and runs every probe in order
// against a fresh snapshot.
func (app *App) cycle(ctx context.Context) (*models.Snapshot, models.Severity, error) {
	if info, err := probe.CollectHostInfo(ctx); err != nil {
		app.lo.Debug("host info refresh failed, keeping previous", "error", err)
	} else {
		app.info = info
	}

	if app.console != nil {
		app.console.Banner(app.info.Hostname, app.info.Platform, app.info.Kernel,
			app.info.Uptime.Round(time.Minute).String())
	}

	return app.chk.Run(ctx, app.reporter)
}

// emit finishes a cycle: the deferred renderer for machine formats, the
// summary line for text, plus the optional single-shot report.
func (app *App) emit(snap *models.Snapshot, sev models.Severity) error {
	if app.renderer != nil {
		if err := app.renderer.Render(os.Stdout, snap); err != nil {
			return err
		}
	}
	if app.console != nil {
		app.console.Summary(sev)
	}
	if !app.opts.Watch {
		return app.writeReport(snap)
	}
	return nil
}

// writeReport dumps the report artifact if a path is configured.
func (app *App) writeReport(snap *models.Snapshot) error {
	if app.opts.ReportPath == "" {
		return nil
	}

	fd, err := os.Create(app.opts.ReportPath)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer fd.Close()

	if err := render.WriteReport(fd, app.info, app.opts.Thresholds, snap); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	app.lo.Info("report written", "path", app.opts.ReportPath)
	return nil
}
