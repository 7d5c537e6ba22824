package probe

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/pkg/models"
)

// Disk checks the fill level of every mounted real filesystem.
type Disk struct {
	lo        *slog.Logger
	threshold int

	partitions func(context.Context, bool) ([]disk.PartitionStat, error)
	usage      func(context.Context, string) (*disk.UsageStat, error)
}

// NewDisk returns a disk probe warning at the given usage percentage.
func NewDisk(lo *slog.Logger, threshold int) *Disk {
	return &Disk{
		lo:         lo.With("probe", "disk"),
		threshold:  threshold,
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
	}
}

func (d *Disk) Name() string { return "disk" }

// Probe enumerates mounted filesystems backed by a real device and
// records one metric per mountpoint. A mount whose usage cannot be read
// is skipped and the cycle continues; failing to list partitions at all
// is fatal.
func (d *Disk) Probe(ctx context.Context, snap *models.Snapshot, rep Reporter) (models.Severity, error) {
	parts, err := d.partitions(ctx, false)
	if err != nil {
		return models.SeverityOK, fmt.Errorf("listing partitions: %w", err)
	}

	rep.Section("Disk")

	overall := models.SeverityOK
	for _, p := range parts {
		// Pseudo-filesystems (proc, tmpfs overlays, ...) have no
		// device path; only real mounts count.
		if !strings.HasPrefix(p.Device, "/") {
			continue
		}

		u, err := d.usage(ctx, p.Mountpoint)
		if err != nil {
			d.lo.Debug("skipping unreadable mount", "mountpoint", p.Mountpoint, "error", err)
			continue
		}
		if u.Total == 0 {
			continue
		}

		pct := int(u.UsedPercent)
		sev := classifyPercent(pct, d.threshold)
		overall = models.MaxSeverity(overall, sev)

		record(d.lo, snap, rep, p.Mountpoint, models.Metric{
			Key:      "disk." + p.Mountpoint,
			Value:    fmt.Sprintf("%s/%s (%d%%)", humanize.IBytes(u.Used), humanize.IBytes(u.Total), pct),
			Severity: sev,
		})
	}

	return overall, nil
}
