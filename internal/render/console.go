package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hostwatch/hostwatch/pkg/models"
)

var (
	okTag   = color.New(color.FgGreen).SprintFunc()
	warnTag = color.New(color.FgYellow).SprintFunc()
	critTag = color.New(color.FgRed, color.Bold).SprintFunc()
	heading = color.New(color.Bold).SprintFunc()
)

// Console prints probe results live as they are produced, which is the
// whole of text-mode rendering: there is no deferred pass over the
// snapshot. It satisfies the probe Reporter interface.
type Console struct {
	w io.Writer
}

// NewConsole returns a live text reporter writing to w. Colors follow
// fatih/color's environment handling (NO_COLOR, non-TTY).
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Section(title string) {
	fmt.Fprintf(c.w, "\n%s\n", heading(title))
}

func (c *Console) Result(label string, sev models.Severity, value string) {
	fmt.Fprintf(c.w, "  %s %-24s %s\n", statusTag(sev), label, value)
}

func (c *Console) Info(label, value string) {
	fmt.Fprintf(c.w, "         %-24s %s\n", label, value)
}

// Banner prints the machine identity block shown before the probes.
func (c *Console) Banner(hostname, platform, kernel, uptime string) {
	fmt.Fprintf(c.w, "%s  %s\n", heading(hostname), platform)
	fmt.Fprintf(c.w, "kernel %s, up %s\n", kernel, uptime)
}

// Summary prints the one-line cycle verdict.
func (c *Console) Summary(sev models.Severity) {
	fmt.Fprintf(c.w, "\noverall: %s\n", statusTag(sev))
}

// Clear resets the terminal between continuous-mode cycles.
func (c *Console) Clear() {
	fmt.Fprint(c.w, "\033[2J\033[H")
}

func statusTag(sev models.Severity) string {
	switch sev {
	case models.SeverityCrit:
		return critTag("[ CRIT ]")
	case models.SeverityWarn:
		return warnTag("[ WARN ]")
	default:
		return okTag("[  OK  ]")
	}
}

// Discard is the Reporter used for machine formats: probes run silently
// and the selected renderer consumes the snapshot afterwards.
type Discard struct{}

func (Discard) Section(string)                         {}
func (Discard) Result(string, models.Severity, string) {}
func (Discard) Info(string, string)                    {}
