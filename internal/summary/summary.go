// Package summary prints the end-of-run report once the live renderer
// has released the terminal.
package summary

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/upsweep-dev/upsweep/internal/registry"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
)

// Reporter writes the final run summary.
type Reporter struct {
	w io.Writer
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report prints the outcome of a run: headline counts, then one block
// per failed package with its message and detail. Skipped packages are
// mentioned by count only.
func (r *Reporter) Report(reg *registry.Registry, skipped int, elapsed time.Duration) {
	counts := reg.CountByState()
	succeeded := counts[registry.StateCompleted]
	failed := counts[registry.StateFailed]

	fmt.Fprintln(r.w)
	okColor.Fprintf(r.w, "%d upgraded", succeeded)
	if failed > 0 {
		fmt.Fprint(r.w, ", ")
		failColor.Fprintf(r.w, "%d failed", failed)
	}
	if skipped > 0 {
		fmt.Fprint(r.w, ", ")
		dimColor.Fprintf(r.w, "%d skipped", skipped)
	}
	fmt.Fprintf(r.w, " in %s\n", elapsed.Round(time.Second))

	if failed == 0 {
		return
	}

	fmt.Fprintln(r.w)
	for _, id := range reg.IDs() {
		e := reg.Get(id)
		if e == nil || e.State != registry.StateFailed {
			continue
		}
		failColor.Fprintf(r.w, "✗ %s", e.Record.Name)
		dimColor.Fprintf(r.w, " (%s%s)\n", e.Record.ID, durationSuffix(e))
		msg := e.ErrorMessage
		if msg == "" {
			msg = "upgrade failed"
		}
		fmt.Fprintf(r.w, "  %s\n", msg)
		if e.ErrorDetail != "" {
			dimColor.Fprintf(r.w, "  %s\n", e.ErrorDetail)
		}
	}
}

// durationSuffix renders how long a package's upgrade ran, when known.
func durationSuffix(e *registry.PackageStatus) string {
	if e.StartedAt.IsZero() || e.FinishedAt.IsZero() {
		return ""
	}
	return ", " + e.FinishedAt.Sub(e.StartedAt).Round(time.Second).String()
}
