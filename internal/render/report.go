package render

import (
	"fmt"
	"io"
	"time"

	"github.com/hostwatch/hostwatch/internal/probe"
	"github.com/hostwatch/hostwatch/pkg/models"
)

// WriteReport emits the fixed-layout report artifact: machine identity,
// the thresholds the cycle ran with, and a full dump of the snapshot.
func WriteReport(w io.Writer, info probe.HostInfo, th probe.Thresholds, snap *models.Snapshot) error {
	fmt.Fprintln(w, "==== host health report ====")
	fmt.Fprintf(w, "generated:  %s\n", snap.Taken.Format(time.RFC3339))
	fmt.Fprintf(w, "hostname:   %s\n", snap.Hostname)
	fmt.Fprintf(w, "kernel:     %s\n", info.Kernel)
	fmt.Fprintf(w, "platform:   %s\n", info.Platform)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "thresholds: disk %d%%, memory %d%%, cpu %d%% (crit floor %d%%)\n",
		th.Disk, th.Memory, th.CPU, probe.CritFloor)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "results:")
	for _, m := range snap.Metrics() {
		fmt.Fprintf(w, "  %-6s %-24s %s\n", m.Severity.String(), m.Key, m.Value)
	}

	return nil
}
