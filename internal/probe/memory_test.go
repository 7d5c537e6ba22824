package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostwatch/hostwatch/pkg/models"
)

const kib = uint64(1) << 10

func newTestMemory(threshold int, vm *mem.VirtualMemoryStat, sw *mem.SwapMemoryStat) *Memory {
	m := NewMemory(testLogger(), threshold)
	m.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		if vm == nil {
			return nil, errors.New("meminfo unreadable")
		}
		return vm, nil
	}
	m.swapMemory = func(context.Context) (*mem.SwapMemoryStat, error) {
		if sw == nil {
			return nil, errors.New("no swap info")
		}
		return sw, nil
	}
	return m
}

func TestMemoryBelowThresholdIsOK(t *testing.T) {
	// 8000000 KB total, 2000000 KB available: 75.0% used, under the
	// default 80 threshold.
	m := newTestMemory(80,
		&mem.VirtualMemoryStat{Total: 8000000 * kib, Available: 2000000 * kib},
		&mem.SwapMemoryStat{})

	snap := models.NewSnapshot("h")
	sev, err := m.Probe(context.Background(), snap, nopReporter{})
	require.NoError(t, err)

	assert.Equal(t, models.SeverityOK, sev)
	got, ok := snap.Get("memory.percent")
	require.True(t, ok)
	assert.Contains(t, got.Value, "75.0%")
	assert.Equal(t, models.SeverityOK, got.Severity)
}

func TestMemoryClassifiesOnTruncatedPercent(t *testing.T) {
	// 94.9% used: truncates to 94, still below the 95 crit floor.
	m := newTestMemory(80,
		&mem.VirtualMemoryStat{Total: 1000 * kib, Available: 51 * kib},
		&mem.SwapMemoryStat{})

	snap := models.NewSnapshot("h")
	sev, err := m.Probe(context.Background(), snap, nopReporter{})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityWarn, sev)
}

func TestMemoryCritAtFloor(t *testing.T) {
	m := newTestMemory(80,
		&mem.VirtualMemoryStat{Total: 100 * kib, Available: 4 * kib},
		&mem.SwapMemoryStat{})

	snap := models.NewSnapshot("h")
	sev, err := m.Probe(context.Background(), snap, nopReporter{})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityCrit, sev)
}

func TestMemoryNoSwapConfigured(t *testing.T) {
	m := newTestMemory(80,
		&mem.VirtualMemoryStat{Total: 1000 * kib, Available: 800 * kib},
		&mem.SwapMemoryStat{Total: 0})

	snap := models.NewSnapshot("h")
	sev, err := m.Probe(context.Background(), snap, nopReporter{})
	require.NoError(t, err)

	assert.Equal(t, models.SeverityOK, sev)
	got, ok := snap.Get("swap.percent")
	require.True(t, ok)
	assert.Equal(t, "none configured", got.Value)
	assert.Equal(t, models.SeverityOK, got.Severity)
}

func TestSwapWarnsAtEightyPercent(t *testing.T) {
	m := newTestMemory(80,
		&mem.VirtualMemoryStat{Total: 1000 * kib, Available: 900 * kib},
		&mem.SwapMemoryStat{Total: 100 * kib, Free: 15 * kib})

	snap := models.NewSnapshot("h")
	sev, err := m.Probe(context.Background(), snap, nopReporter{})
	require.NoError(t, err)

	// Memory itself is OK; the probe verdict is the swap warning.
	assert.Equal(t, models.SeverityWarn, sev)
	ram, _ := snap.Get("memory.percent")
	assert.Equal(t, models.SeverityOK, ram.Severity)
	swap, _ := snap.Get("swap.percent")
	assert.Equal(t, models.SeverityWarn, swap.Severity)
}

func TestMemoryReadFailureIsFatal(t *testing.T) {
	m := newTestMemory(80, nil, nil)
	_, err := m.Probe(context.Background(), models.NewSnapshot("h"), nopReporter{})
	require.Error(t, err)
}
