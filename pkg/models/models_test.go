package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityOK < SeverityWarn)
	assert.True(t, SeverityWarn < SeverityCrit)

	assert.Equal(t, SeverityCrit, MaxSeverity(SeverityWarn, SeverityCrit))
	assert.Equal(t, SeverityCrit, MaxSeverity(SeverityCrit, SeverityWarn))
	assert.Equal(t, SeverityOK, MaxSeverity(SeverityOK, SeverityOK))
}

func TestSeverityExitCodes(t *testing.T) {
	assert.Equal(t, 0, SeverityOK.ExitCode())
	assert.Equal(t, 1, SeverityWarn.ExitCode())
	assert.Equal(t, 2, SeverityCrit.ExitCode())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "OK", SeverityOK.String())
	assert.Equal(t, "WARN", SeverityWarn.String())
	assert.Equal(t, "CRIT", SeverityCrit.String())
}

func TestSnapshotRejectsDuplicateKeys(t *testing.T) {
	snap := NewSnapshot("host1")

	require.NoError(t, snap.Add(Metric{Key: "disk./", Value: "first", Severity: SeverityOK}))
	err := snap.Add(Metric{Key: "disk./", Value: "second", Severity: SeverityCrit})
	require.Error(t, err)

	// First write wins; the collision never clobbers.
	m, ok := snap.Get("disk./")
	require.True(t, ok)
	assert.Equal(t, "first", m.Value)
	assert.Equal(t, SeverityOK, m.Severity)
	assert.Equal(t, 1, snap.Len())
}

func TestSnapshotPreservesInsertionOrder(t *testing.T) {
	snap := NewSnapshot("host1")
	keys := []string{"disk./", "memory.percent", "cpu.load", "service.sshd"}
	for _, k := range keys {
		require.NoError(t, snap.Add(Metric{Key: k, Value: "v"}))
	}

	got := snap.Metrics()
	require.Len(t, got, len(keys))
	for i, k := range keys {
		assert.Equal(t, k, got[i].Key)
	}
}
