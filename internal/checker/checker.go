// Package checker runs one check cycle: every probe in fixed order
// against a fresh snapshot, reduced to a single severity.
package checker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/internal/probe"
	"github.com/hostwatch/hostwatch/pkg/models"
)

// Checker owns probe ordering and cycle aggregation.
type Checker struct {
	lo       *slog.Logger
	probes   []probe.Prober
	hostname string
	timeout  time.Duration
}

// New returns a checker running the given probes in the given order.
// Probe order is part of the contract: the earlier probe owns first
// write on any metric key.
func New(lo *slog.Logger, hostname string, timeout time.Duration, probes ...probe.Prober) *Checker {
	return &Checker{
		lo:       lo,
		probes:   probes,
		hostname: hostname,
		timeout:  timeout,
	}
}

// Run executes one full cycle. The snapshot is complete once Run
// returns; the overall severity is the maximum over the severities the
// probes themselves returned, not over individual metrics. A probe error
// means a mandatory source could not be read and aborts the cycle.
func (c *Checker) Run(ctx context.Context, rep probe.Reporter) (*models.Snapshot, models.Severity, error) {
	snap := models.NewSnapshot(c.hostname)
	overall := models.SeverityOK

	for _, p := range c.probes {
		if err := ctx.Err(); err != nil {
			return nil, overall, err
		}

		pctx, cancel := context.WithTimeout(ctx, c.timeout)
		sev, err := p.Probe(pctx, snap, rep)
		cancel()
		if err != nil {
			return nil, overall, fmt.Errorf("probe %s: %w", p.Name(), err)
		}

		c.lo.Debug("probe finished", "probe", p.Name(), "severity", sev.String())
		overall = models.MaxSeverity(overall, sev)
	}

	return snap, overall, nil
}
