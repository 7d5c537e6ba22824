package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostwatch/hostwatch/pkg/models"
)

func newTestServices(names []string, procs map[string]bool, units map[string]bool) *Services {
	s := NewServices(testLogger(), names)
	s.runningNames = func(context.Context) (map[string]bool, error) {
		return procs, nil
	}
	s.systemdState = func(_ context.Context, unit string) bool {
		return units[unit]
	}
	return s
}

func TestServicesNoConfiguredServicesIsNoop(t *testing.T) {
	s := newTestServices(nil, nil, nil)

	snap := models.NewSnapshot("h")
	sev, err := s.Probe(context.Background(), snap, nopReporter{})
	require.NoError(t, err)

	assert.Equal(t, models.SeverityOK, sev)
	assert.Equal(t, 0, snap.Len())
}

func TestServicesProcessMatchWinsOverSystemd(t *testing.T) {
	s := newTestServices([]string{"sshd"},
		map[string]bool{"sshd": true},
		map[string]bool{"sshd": true})

	snap := models.NewSnapshot("h")
	sev, err := s.Probe(context.Background(), snap, nopReporter{})
	require.NoError(t, err)

	assert.Equal(t, models.SeverityOK, sev)
	m, ok := snap.Get("service.sshd")
	require.True(t, ok)
	assert.Equal(t, "running", m.Value)
}

func TestServicesSystemdFallback(t *testing.T) {
	s := newTestServices([]string{"nginx"},
		map[string]bool{},
		map[string]bool{"nginx": true})

	snap := models.NewSnapshot("h")
	sev, err := s.Probe(context.Background(), snap, nopReporter{})
	require.NoError(t, err)

	assert.Equal(t, models.SeverityOK, sev)
	m, _ := snap.Get("service.nginx")
	assert.Equal(t, "running (systemd)", m.Value)
}

func TestServicesStoppedWarns(t *testing.T) {
	s := newTestServices([]string{"sshd", "postgres"},
		map[string]bool{"sshd": true},
		map[string]bool{})

	snap := models.NewSnapshot("h")
	sev, err := s.Probe(context.Background(), snap, nopReporter{})
	require.NoError(t, err)

	assert.Equal(t, models.SeverityWarn, sev)
	up, _ := snap.Get("service.sshd")
	assert.Equal(t, models.SeverityOK, up.Severity)
	down, _ := snap.Get("service.postgres")
	assert.Equal(t, models.SeverityWarn, down.Severity)
	assert.Equal(t, "stopped", down.Value)
}
