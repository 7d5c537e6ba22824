package probe

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/pkg/models"
)

// swapWarnFloor is the fixed WARN threshold for swap usage.
const swapWarnFloor = 80

// Memory checks RAM and swap utilisation.
type Memory struct {
	lo        *slog.Logger
	threshold int

	virtualMemory func(context.Context) (*mem.VirtualMemoryStat, error)
	swapMemory    func(context.Context) (*mem.SwapMemoryStat, error)
}

// NewMemory returns a memory probe warning at the given usage percentage.
func NewMemory(lo *slog.Logger, threshold int) *Memory {
	return &Memory{
		lo:            lo.With("probe", "memory"),
		threshold:     threshold,
		virtualMemory: mem.VirtualMemoryWithContext,
		swapMemory:    mem.SwapMemoryWithContext,
	}
}

func (m *Memory) Name() string { return "memory" }

// Probe records memory.percent and swap.percent. Used memory counts
// everything the kernel cannot reclaim: total minus available.
// Classification happens on the truncated integer percent; the stored
// value keeps one decimal. The virtual-memory source is mandatory; swap
// is optional and merely informational when absent.
func (m *Memory) Probe(ctx context.Context, snap *models.Snapshot, rep Reporter) (models.Severity, error) {
	vm, err := m.virtualMemory(ctx)
	if err != nil {
		return models.SeverityOK, fmt.Errorf("reading memory info: %w", err)
	}
	if vm.Total == 0 {
		return models.SeverityOK, fmt.Errorf("memory info reports zero total")
	}

	rep.Section("Memory")

	used := vm.Total - vm.Available
	pct := float64(used) * 100 / float64(vm.Total)
	sev := classifyPercent(int(pct), m.threshold)

	record(m.lo, snap, rep, "RAM", models.Metric{
		Key:      "memory.percent",
		Value:    fmt.Sprintf("%.1f%% (%s/%s used)", pct, humanize.IBytes(used), humanize.IBytes(vm.Total)),
		Severity: sev,
	})

	swapSev := models.SeverityOK
	sw, err := m.swapMemory(ctx)
	switch {
	case err != nil:
		m.lo.Debug("swap info unavailable", "error", err)
	case sw.Total == 0:
		record(m.lo, snap, rep, "Swap", models.Metric{
			Key:      "swap.percent",
			Value:    "none configured",
			Severity: models.SeverityOK,
		})
	default:
		swapPct := float64(sw.Total-sw.Free) * 100 / float64(sw.Total)
		if int(swapPct) >= swapWarnFloor {
			swapSev = models.SeverityWarn
		}
		record(m.lo, snap, rep, "Swap", models.Metric{
			Key:      "swap.percent",
			Value:    fmt.Sprintf("%.1f%% (%s/%s used)", swapPct, humanize.IBytes(sw.Total-sw.Free), humanize.IBytes(sw.Total)),
			Severity: swapSev,
		})
	}

	return models.MaxSeverity(sev, swapSev), nil
}
