package render

import (
	"fmt"
	"io"
	"time"

	"github.com/hostwatch/hostwatch/pkg/models"
)

type csvRenderer struct{}

// Render writes a header plus one row per metric. Rows are written
// verbatim rather than through encoding/csv: the wire contract is
// unquoted fields, and metric values are comma-free by construction.
func (r *csvRenderer) Render(w io.Writer, snap *models.Snapshot) error {
	if _, err := fmt.Fprintln(w, "timestamp,metric,value"); err != nil {
		return err
	}

	ts := snap.Taken.Format(time.RFC3339)
	for _, m := range snap.Metrics() {
		if _, err := fmt.Fprintf(w, "%s,%s,%s\n", ts, m.Key, m.Value); err != nil {
			return err
		}
	}
	return nil
}
