package probe

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/pkg/models"
)

// topProcessCount is how many CPU hogs the verbose listing shows.
const topProcessCount = 5

// CPU checks the 1-minute load average against the core count.
type CPU struct {
	lo        *slog.Logger
	threshold int
	verbose   bool

	loadAvg   func(context.Context) (*load.AvgStat, error)
	loadMisc  func(context.Context) (*load.MiscStat, error)
	cpuCounts func(context.Context, bool) (int, error)
	processes func(context.Context) ([]*process.Process, error)
}

// NewCPU returns a CPU probe warning at the given load percentage.
// With verbose set it also lists the busiest processes.
func NewCPU(lo *slog.Logger, threshold int, verbose bool) *CPU {
	return &CPU{
		lo:        lo.With("probe", "cpu"),
		threshold: threshold,
		verbose:   verbose,
		loadAvg:   load.AvgWithContext,
		loadMisc:  load.MiscWithContext,
		cpuCounts: cpu.CountsWithContext,
		processes: process.ProcessesWithContext,
	}
}

func (c *CPU) Name() string { return "cpu" }

// Probe classifies only the 1-minute figure; the 5/15-minute averages and
// the process counts are recorded informationally at OK. The load-average
// source is mandatory. A load of one full core per core is always CRIT,
// whatever the configured threshold.
func (c *CPU) Probe(ctx context.Context, snap *models.Snapshot, rep Reporter) (models.Severity, error) {
	avg, err := c.loadAvg(ctx)
	if err != nil {
		return models.SeverityOK, fmt.Errorf("reading load average: %w", err)
	}

	cores, err := c.cpuCounts(ctx, true)
	if err != nil || cores < 1 {
		cores = 1
	}

	rep.Section("CPU")

	loadPct := int(avg.Load1 * 100 / float64(cores))
	sev := models.SeverityOK
	switch {
	case loadPct >= 100:
		sev = models.SeverityCrit
	case loadPct >= c.threshold:
		sev = models.SeverityWarn
	}

	record(c.lo, snap, rep, fmt.Sprintf("Load (%d cores)", cores), models.Metric{
		Key:      "cpu.load",
		Value:    fmt.Sprintf("%.2f", avg.Load1),
		Severity: sev,
	})
	record(c.lo, snap, rep, "Load 5m", models.Metric{
		Key:      "cpu.load5",
		Value:    fmt.Sprintf("%.2f", avg.Load5),
		Severity: models.SeverityOK,
	})
	record(c.lo, snap, rep, "Load 15m", models.Metric{
		Key:      "cpu.load15",
		Value:    fmt.Sprintf("%.2f", avg.Load15),
		Severity: models.SeverityOK,
	})

	if misc, err := c.loadMisc(ctx); err != nil {
		c.lo.Debug("process counts unavailable", "error", err)
	} else {
		record(c.lo, snap, rep, "Processes", models.Metric{
			Key:      "cpu.procs",
			Value:    fmt.Sprintf("%d/%d", misc.ProcsRunning, misc.ProcsTotal),
			Severity: models.SeverityOK,
		})
	}

	if c.verbose {
		c.reportTopProcesses(ctx, rep)
	}

	return sev, nil
}

type procUsage struct {
	name string
	pid  int32
	pct  float64
}

// reportTopProcesses surfaces the busiest processes as display-only
// lines. Best effort: processes that vanish mid-scan are ignored.
func (c *CPU) reportTopProcesses(ctx context.Context, rep Reporter) {
	procs, err := c.processes(ctx)
	if err != nil {
		c.lo.Debug("process table unavailable", "error", err)
		return
	}

	usages := make([]procUsage, 0, len(procs))
	for _, p := range procs {
		pct, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		usages = append(usages, procUsage{name: name, pid: p.Pid, pct: pct})
	}

	sort.Slice(usages, func(i, j int) bool { return usages[i].pct > usages[j].pct })
	if len(usages) > topProcessCount {
		usages = usages[:topProcessCount]
	}

	for _, u := range usages {
		rep.Info(fmt.Sprintf("%s (pid %d)", u.name, u.pid), fmt.Sprintf("%.1f%% cpu", u.pct))
	}
}
