// Package diagfmt renders diagnostics and analysis dumps for terminals.
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/junaire/brandy/internal/diag"
)

// PrettyOpts configures diagnostic rendering.
type PrettyOpts struct {
	Color bool
}

// Pretty formats diagnostics one per line:
// <pos>: <SEV> <CODE>: <message>, followed by indented notes.
// Expects bag.Sort() to have run.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	sevColor := map[diag.Severity]*color.Color{
		diag.SevInfo:    color.New(color.FgCyan),
		diag.SevWarning: color.New(color.FgYellow, color.Bold),
		diag.SevError:   color.New(color.FgRed, color.Bold),
	}

	for _, d := range bag.Items() {
		sev := d.Severity.String()
		if opts.Color {
			if c, ok := sevColor[d.Severity]; ok {
				sev = c.Sprint(sev)
			}
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n", d.Primary, sev, d.Code, d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s: %s\n", n.Pos, n.Msg)
		}
	}
}
