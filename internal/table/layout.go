// Package table renders quota rows as a width-constrained text table.
// Columns are fixed; widths adapt to content between a per-column floor and
// cap, and competitive shrinking keeps the whole table inside the target
// width.
package table

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/glancelabs/quotaglance/internal/core"
)

const (
	colProvider = iota
	colAccount
	colPlan
	colMetric
	colValue
	colBar
	colReset
	colCount
)

type column struct {
	title string
	max   int
	min   int
}

var columns = [colCount]column{
	colProvider: {"Provider", 14, 8},
	colAccount:  {"Account", 28, 10},
	colPlan:     {"Plan", 12, 6},
	colMetric:   {"Metric", 22, 8},
	colValue:    {"Value", 26, 8},
	colBar:      {"Bar", 12, 5},
	colReset:    {"Reset", 19, 6},
}

// shrinkOrder lists columns by willingness to give up width. Value and
// Reset compress gracefully (they get ellipsized), Account is sacrificed
// last because it is how the user tells lines apart.
var shrinkOrder = [colCount]int{colValue, colReset, colMetric, colBar, colProvider, colPlan, colAccount}

const title = "Provider quota"

// Render lays rows out at the target width. width <= 0 means unconstrained.
// When even floor widths overflow the target, the table renders best-effort
// wide; the final per-line truncation still enforces the budget.
func Render(rows []core.QuotaRow, width int) []string {
	if len(rows) == 0 {
		rows = []core.QuotaRow{core.PlaceholderRow()}
	}

	cells := make([][colCount]string, len(rows))
	for i, r := range rows {
		cells[i] = [colCount]string{
			colProvider: sanitize(r.Provider),
			colAccount:  sanitize(r.Account),
			colPlan:     sanitize(r.Plan),
			colMetric:   sanitize(r.Metric),
			colValue:    sanitize(r.Value),
			colReset:    sanitize(r.Reset),
		}
	}

	widths := fitWidths(rows, cells, width)

	lines := make([]string, 0, len(rows)+5)
	border := borderLine(widths)
	lines = append(lines, titleStyle.Render(title), border, headerLine(widths), border)
	for i, r := range rows {
		if i > 0 && rows[i-1].Provider != r.Provider {
			lines = append(lines, border)
		}
		lines = append(lines, rowLine(r, cells[i], widths))
	}
	lines = append(lines, border)

	if width > 0 {
		for i, line := range lines {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return lines
}

// fitWidths computes natural widths, then shrinks one cell at a time in
// priority order until the table fits or every column is at its floor.
func fitWidths(rows []core.QuotaRow, cells [][colCount]string, width int) [colCount]int {
	var widths [colCount]int
	for c := range columns {
		w := runewidth.StringWidth(columns[c].title)
		if c == colBar {
			for _, r := range rows {
				if r.Remaining != nil {
					w = columns[colBar].max
					break
				}
			}
		} else {
			for i := range cells {
				if cw := runewidth.StringWidth(cells[i][c]); cw > w {
					w = cw
				}
			}
		}
		if w > columns[c].max {
			w = columns[c].max
		}
		widths[c] = w
	}

	if width <= 0 {
		return widths
	}

	total := overhead()
	for _, w := range widths {
		total += w
	}
	for total > width {
		shrunk := false
		for _, c := range shrinkOrder {
			if widths[c] > columns[c].min {
				widths[c]--
				total--
				shrunk = true
				break
			}
		}
		if !shrunk {
			break
		}
	}
	return widths
}

// overhead is the fixed chrome per line: "| " + " | "×6 + " |".
func overhead() int {
	return 3*colCount + 1
}

func borderLine(widths [colCount]int) string {
	var b strings.Builder
	for _, w := range widths {
		b.WriteString("+")
		b.WriteString(strings.Repeat("-", w+2))
	}
	b.WriteString("+")
	return b.String()
}

func headerLine(widths [colCount]int) string {
	var parts [colCount]string
	for c := range columns {
		parts[c] = headerStyle.Render(fit(columns[c].title, widths[c]))
	}
	return joinCells(parts)
}

func rowLine(r core.QuotaRow, cells [colCount]string, widths [colCount]int) string {
	var parts [colCount]string
	for c := range cells {
		if c == colBar {
			continue
		}
		parts[c] = fit(cells[c], widths[c])
	}
	if r.Remaining != nil {
		parts[colBar] = renderBar(*r.Remaining*100, widths[colBar])
	} else {
		parts[colBar] = fit("", widths[colBar])
	}
	return joinCells(parts)
}

func joinCells(parts [colCount]string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("| ")
		b.WriteString(p)
		b.WriteString(" ")
	}
	b.WriteString("|")
	return b.String()
}

// fit truncates with a trailing ellipsis and pads to exactly w display
// cells. Strings already within w come back unchanged before padding.
func fit(s string, w int) string {
	s = ansi.Truncate(s, w, "…")
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// sanitize keeps cells single-line: newlines and tabs collapse to spaces,
// other control characters are dropped.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
