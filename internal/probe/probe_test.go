package probe

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"

	"github.com/hostwatch/hostwatch/pkg/models"
)

// nopReporter swallows display output in probe tests.
type nopReporter struct{}

func (nopReporter) Section(string)                         {}
func (nopReporter) Result(string, models.Severity, string) {}
func (nopReporter) Info(string, string)                    {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassifyPercent(t *testing.T) {
	tests := []struct {
		name      string
		pct       int
		threshold int
		want      models.Severity
	}{
		{"well below threshold", 50, 80, models.SeverityOK},
		{"just below threshold", 79, 80, models.SeverityOK},
		{"at threshold", 80, 80, models.SeverityWarn},
		{"between threshold and crit floor", 94, 80, models.SeverityWarn},
		{"at crit floor", 95, 80, models.SeverityCrit},
		{"above crit floor", 97, 80, models.SeverityCrit},
		{"crit floor beats a higher threshold", 96, 99, models.SeverityCrit},
		{"zero threshold warns immediately", 0, 0, models.SeverityWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPercent(tt.pct, tt.threshold))
		})
	}
}
