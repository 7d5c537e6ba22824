package probe

import (
	"context"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/pkg/models"
)

// Service state strings as stored in the snapshot.
const (
	stateRunning        = "running"
	stateRunningSystemd = "running (systemd)"
	stateStopped        = "stopped"
)

// Services checks liveness of a configured list of named services.
type Services struct {
	lo    *slog.Logger
	names []string

	runningNames func(context.Context) (map[string]bool, error)
	systemdState func(context.Context, string) bool
}

// NewServices returns a service probe for the given unit names. With an
// empty list the probe is a no-op.
func NewServices(lo *slog.Logger, names []string) *Services {
	return &Services{
		lo:           lo.With("probe", "services"),
		names:        names,
		runningNames: processNames,
		systemdState: systemdActive,
	}
}

func (s *Services) Name() string { return "services" }

// Probe resolves each configured name first against the process table
// (exact command-name match) and then against systemd's active state.
// Any stopped service makes the probe WARN.
func (s *Services) Probe(ctx context.Context, snap *models.Snapshot, rep Reporter) (models.Severity, error) {
	if len(s.names) == 0 {
		return models.SeverityOK, nil
	}

	rep.Section("Services")

	running, err := s.runningNames(ctx)
	if err != nil {
		s.lo.Debug("process table unavailable, relying on systemd", "error", err)
	}

	overall := models.SeverityOK
	for _, name := range s.names {
		state := stateStopped
		sev := models.SeverityWarn
		switch {
		case running[name]:
			state = stateRunning
			sev = models.SeverityOK
		case s.systemdState(ctx, name):
			state = stateRunningSystemd
			sev = models.SeverityOK
		}
		overall = models.MaxSeverity(overall, sev)

		record(s.lo, snap, rep, name, models.Metric{
			Key:      "service." + name,
			Value:    state,
			Severity: sev,
		})
	}

	return overall, nil
}

// processNames scans the process table once and returns the set of
// command names seen. Processes that exit mid-scan are skipped.
func processNames(ctx context.Context) (map[string]bool, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]bool, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		names[name] = true
	}
	return names, nil
}

// systemdActive asks systemd whether the unit is active. Any failure
// (no systemd, unknown unit) counts as not running.
func systemdActive(ctx context.Context, unit string) bool {
	out, err := exec.CommandContext(ctx, "systemctl", "is-active", unit).Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "active"
}
