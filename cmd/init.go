package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"
	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/internal/render"
)

// flagKeys maps each command-line flag to the config key it overrides.
// Flags win over both the config file and the environment.
var flagKeys = map[string]string{
	"disk-threshold":   "thresholds.disk",
	"memory-threshold": "thresholds.memory",
	"cpu-threshold":    "thresholds.cpu",
	"interval":         "app.interval",
	"format":           "app.format",
	"watch":            "app.watch",
	"verbose":          "app.verbose",
	"service":          "services.watch",
	"report":           "report.path",
	"log-level":        "app.log_level",
}

// initConfig loads config to `ko` object: config file (TOML or YAML by
// extension), then environment, then flags.
func initConfig(cfgDefault, envPrefix string) (*koanf.Koanf, error) {
	var (
		ko = koanf.New(".")
		f  = flag.NewFlagSet("hostwatch", flag.ContinueOnError)
	)

	f.Usage = func() {
		fmt.Println(f.FlagUsages())
		os.Exit(0)
	}

	cfgPath := f.String("config", cfgDefault, "Path to a config file to load.")
	f.IntP("disk-threshold", "d", 80, "Disk usage WARN threshold percentage.")
	f.IntP("memory-threshold", "m", 80, "Memory usage WARN threshold percentage.")
	f.IntP("cpu-threshold", "c", 80, "CPU load WARN threshold percentage.")
	f.DurationP("interval", "i", 60*time.Second, "Delay between cycles in continuous mode.")
	f.StringP("format", "f", "text", "Output format: text, json or csv.")
	f.StringSliceP("service", "s", nil, "Service name to check (repeatable).")
	f.BoolP("watch", "w", false, "Keep checking on the configured interval until cancelled.")
	f.BoolP("verbose", "v", false, "Show the busiest processes in text output.")
	f.StringP("report", "r", "", "Write a full report to this path.")
	f.String("log-level", "info", "Log level: info or debug.")

	if err := f.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	// Load the config file from the path provided. The default path is
	// optional: running from flags alone must work.
	if err := ko.Load(file.Provider(*cfgPath), configParser(*cfgPath)); err != nil {
		if !errors.Is(err, os.ErrNotExist) || f.Changed("config") {
			return nil, fmt.Errorf("loading config %s: %w", *cfgPath, err)
		}
	}

	// Merge environment variables on top.
	if envPrefix != "" {
		err := ko.Load(env.Provider(envPrefix, ".", func(s string) string {
			return strings.Replace(strings.ToLower(
				strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
		}), nil)
		if err != nil {
			return nil, err
		}
	}

	// Finally apply explicitly set flags. Only visited flags are merged,
	// so flag defaults never shadow file or env values.
	var ferr error
	f.Visit(func(fl *flag.Flag) {
		key, ok := flagKeys[fl.Name]
		if !ok {
			return
		}
		var val interface{}
		var err error
		switch fl.Value.Type() {
		case "int":
			val, err = f.GetInt(fl.Name)
		case "bool":
			val, err = f.GetBool(fl.Name)
		case "duration":
			val, err = f.GetDuration(fl.Name)
		case "stringSlice":
			val, err = f.GetStringSlice(fl.Name)
		default:
			val = fl.Value.String()
		}
		if err == nil {
			err = ko.Set(key, val)
		}
		if err != nil && ferr == nil {
			ferr = fmt.Errorf("flag --%s: %w", fl.Name, err)
		}
	})
	if ferr != nil {
		return nil, ferr
	}

	return ko, nil
}

// configParser picks the file parser by extension. Everything that is
// not YAML is treated as TOML.
func configParser(path string) koanf.Parser {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// initOpts resolves and validates the runtime options. Any violation
// here aborts the process before a single probe runs.
func initOpts(ko *koanf.Koanf) (Opts, error) {
	opts := Opts{
		Format:       ko.String("app.format"),
		Interval:     ko.Duration("app.interval"),
		Watch:        ko.Bool("app.watch"),
		Verbose:      ko.Bool("app.verbose"),
		ProbeTimeout: ko.Duration("app.probe_timeout"),
		Services:     ko.Strings("services.watch"),
		ReportPath:   ko.String("report.path"),
	}
	opts.Thresholds.Disk = thresholdOr(ko, "thresholds.disk", 80)
	opts.Thresholds.Memory = thresholdOr(ko, "thresholds.memory", 80)
	opts.Thresholds.CPU = thresholdOr(ko, "thresholds.cpu", 80)

	if opts.Format == "" {
		opts.Format = render.FormatText
	}
	if _, err := render.ForFormat(opts.Format); err != nil {
		return opts, err
	}
	if opts.Interval <= 0 {
		if ko.Exists("app.interval") {
			return opts, fmt.Errorf("interval must be positive, got %s", opts.Interval)
		}
		opts.Interval = 60 * time.Second
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 10 * time.Second
	}
	for _, t := range []struct {
		name  string
		value int
	}{
		{"disk", opts.Thresholds.Disk},
		{"memory", opts.Thresholds.Memory},
		{"cpu", opts.Thresholds.CPU},
	} {
		if t.value < 0 || t.value > 100 {
			return opts, fmt.Errorf("%s threshold must be between 0 and 100, got %d", t.name, t.value)
		}
	}

	return opts, nil
}

func thresholdOr(ko *koanf.Koanf, key string, def int) int {
	if !ko.Exists(key) {
		return def
	}
	return ko.Int(key)
}

// initLogger initialises a logger.
func initLogger(lvl string) *slog.Logger {
	opts := slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if lvl == "debug" {
		opts.Level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &opts).WithAttrs([]slog.Attr{slog.String("component", "hostwatch")}))
}
