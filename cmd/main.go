package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/internal/checker"
	"github.com/hostwatch/hostwatch/internal/probe"
	"github.com/hostwatch/hostwatch/internal/render"
)

// Exit codes. 0/1/2 mirror the overall cycle severity; the rest are
// reserved so callers can tell "stopped" and "misused" apart from
// "alerted".
const (
	exitFatal     = 1
	exitUsage     = 3
	exitInterrupt = 130
	exitTerminate = 143
)

var (
	// Version of the build. This is injected at build-time.
	buildString = "unknown"
)

func main() {
	// Initialise and load the config.
	ko, err := initConfig("config.sample.toml", "HOSTWATCH_")
	if err != nil {
		fmt.Fprintln(os.Stderr, "hostwatch:", err)
		os.Exit(exitUsage)
	}

	opts, err := initOpts(ko)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hostwatch:", err)
		os.Exit(exitUsage)
	}

	lo := initLogger(ko.String("app.log_level"))
	lo.Debug("booting hostwatch", "version", buildString)

	// Create a new context which is cancelled when `SIGINT`/`SIGTERM`
	// is received; remember which one arrived for the exit code.
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	sigCode := make(chan int, 1)
	go func() {
		sig := <-sigCh
		lo.Info("received signal", "signal", sig.String())
		sigCode <- signalExitCode(sig)
		cancel()
	}()

	app, err := initApp(ctx, lo, opts)
	if err != nil {
		lo.Error("failed to init app", "error", err)
		os.Exit(exitFatal)
	}

	var code int
	if opts.Watch {
		code = app.watch(ctx)
		// Cancellation reports the signal sentinel, never the last
		// observed severity.
		select {
		case c := <-sigCode:
			code = c
		default:
		}
	} else {
		code = app.runOnce(ctx)
	}

	os.Exit(code)
}

// initApp assembles the checker, probes and renderer for the resolved
// options. Probe order is fixed; it decides first-write ownership of
// every metric key.
func initApp(ctx context.Context, lo *slog.Logger, opts Opts) (*App, error) {
	info, err := probe.CollectHostInfo(ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := render.ForFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	app := &App{
		lo:   lo,
		opts: opts,
		info: info,
	}
	if renderer == nil {
		app.console = render.NewConsole(os.Stdout)
		app.reporter = app.console
	} else {
		app.renderer = renderer
		app.reporter = render.Discard{}
	}

	app.chk = checker.New(lo, info.Hostname, opts.ProbeTimeout,
		probe.NewDisk(lo, opts.Thresholds.Disk),
		probe.NewMemory(lo, opts.Thresholds.Memory),
		probe.NewCPU(lo, opts.Thresholds.CPU, opts.Verbose),
		probe.NewServices(lo, opts.Services),
	)

	return app, nil
}

func signalExitCode(sig os.Signal) int {
	if sig == syscall.SIGTERM {
		return exitTerminate
	}
	return exitInterrupt
}
