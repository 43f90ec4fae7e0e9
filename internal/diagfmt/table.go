package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Header renders a section header (used by the cfg and dom dumps): boxed
// when useColor is set, a plain "== title ==" line otherwise.
func Header(w io.Writer, title string, useColor bool) {
	if !useColor {
		fmt.Fprintf(w, "== %s ==\n", title)
		return
	}
	fmt.Fprintln(w, headerStyle.Render(title))
}

// Table renders two-column rows with the first column padded to a common
// width. Block names may carry non-ASCII labels, so padding is display
// width, not byte length.
func Table(w io.Writer, rows [][2]string) {
	width := 0
	for _, row := range rows {
		if n := runewidth.StringWidth(row[0]); n > width {
			width = n
		}
	}
	for _, row := range rows {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(row[0]))
		fmt.Fprintf(w, "  %s%s  %s\n", row[0], pad, row[1])
	}
}
