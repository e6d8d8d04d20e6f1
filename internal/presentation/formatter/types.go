// Package formatter renders API results for the terminal in table, json
// and csv form.
package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Align controls cell alignment within a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table is a bordered text table in the style of the dashboard views.
type Table struct {
	Headers []string
	Aligns  []Align // Defaults to left when shorter than Headers
}

// Render writes the table with box-drawing borders, sizing each column to
// its widest cell. Widths are measured with runewidth so wide characters
// keep the borders straight.
func (t Table) Render(w io.Writer, rows [][]string) {
	widths := t.columnWidths(rows)

	t.printBorder(w, widths, "top")
	t.printRow(w, t.Headers, widths)
	t.printBorder(w, widths, "middle")
	for _, row := range rows {
		t.printRow(w, row, widths)
	}
	t.printBorder(w, widths, "bottom")
}

func (t Table) columnWidths(rows [][]string) []int {
	widths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && runewidth.StringWidth(cell) > widths[i] {
				widths[i] = runewidth.StringWidth(cell)
			}
		}
	}
	return widths
}

func (t Table) printBorder(w io.Writer, widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Fprint(w, left)
	for i, width := range widths {
		fmt.Fprint(w, strings.Repeat(separator, width+2))
		if i < len(widths)-1 {
			fmt.Fprint(w, middle)
		}
	}
	fmt.Fprintln(w, right)
}

func (t Table) printRow(w io.Writer, values []string, widths []int) {
	fmt.Fprint(w, "│")
	for i := range widths {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		pad := widths[i] - runewidth.StringWidth(value)
		if pad < 0 {
			pad = 0
		}
		if i < len(t.Aligns) && t.Aligns[i] == AlignRight {
			fmt.Fprintf(w, " %s%s │", strings.Repeat(" ", pad), value)
		} else {
			fmt.Fprintf(w, " %s%s │", value, strings.Repeat(" ", pad))
		}
	}
	fmt.Fprintln(w)
}

// terminalWidth returns the current terminal width, or a conservative
// default when stdout is not a terminal.
func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 120
}
