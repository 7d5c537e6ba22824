// Package probe implements the built-in host checks. Each probe samples
// one resource class, records its observations into the cycle snapshot
// and returns a single severity for the probe as a whole.
package probe

import (
	"context"

	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/pkg/models"
)

// A Prober runs one check against the current cycle's snapshot. Probes
// run strictly sequentially; the snapshot is theirs to write for the
// duration of the call and nobody else's.
//
// The returned severity is the probe's overall verdict, which is the unit
// of cycle aggregation. It may be stricter than any individual metric the
// probe recorded (an informational metric stays OK even when a sibling
// entry pushed the probe to WARN). A non-nil error means a mandatory data
// source could not be read and the cycle cannot complete.
type Prober interface {
	Name() string
	Probe(ctx context.Context, snap *models.Snapshot, rep Reporter) (models.Severity, error)
}

// Reporter receives display output while a probe runs. In text mode the
// console prints each line as it arrives; in machine formats every call
// is a no-op. Info lines are display-only and never become metrics.
type Reporter interface {
	Section(title string)
	Result(label string, sev models.Severity, value string)
	Info(label, value string)
}

// Thresholds are the WARN floors for the percentage-based probes,
// resolved and validated by the caller before the first cycle. The CRIT
// floor is fixed.
type Thresholds struct {
	Disk   int
	Memory int
	CPU    int
}

// CritFloor is the usage percentage at which disk and memory flip to
// CRIT regardless of the configured WARN threshold.
const CritFloor = 95

// classifyPercent applies the shared two-tier rule: at or above the CRIT
// floor is critical, at or above the configured threshold is a warning.
func classifyPercent(pct, threshold int) models.Severity {
	switch {
	case pct >= CritFloor:
		return models.SeverityCrit
	case pct >= threshold:
		return models.SeverityWarn
	default:
		return models.SeverityOK
	}
}

// record adds a metric to the snapshot and mirrors it to the reporter.
// A duplicate key is surfaced in the log and discarded; the first value
// stays.
func record(lo *slog.Logger, snap *models.Snapshot, rep Reporter, label string, m models.Metric) {
	if err := snap.Add(m); err != nil {
		lo.Warn("metric key collision", "key", m.Key, "error", err)
		return
	}
	rep.Result(label, m.Severity, m.Value)
}
