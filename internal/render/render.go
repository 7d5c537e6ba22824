// Package render turns a completed cycle snapshot into output. Exactly
// one renderer consumes each snapshot; none of them ever triggers a
// re-probe.
package render

import (
	"fmt"
	"io"

	"github.com/hostwatch/hostwatch/pkg/models"
)

// Output formats accepted on the command line.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// A Renderer writes one completed snapshot to w.
type Renderer interface {
	Render(w io.Writer, snap *models.Snapshot) error
}

// ForFormat maps a validated format name to its renderer. Text has no
// deferred renderer: its lines are printed live by the Console while the
// probes run, so it maps to nil.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case FormatText:
		return nil, nil
	case FormatJSON:
		return &jsonRenderer{}, nil
	case FormatCSV:
		return &csvRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
