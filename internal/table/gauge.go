package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorOK    = lipgloss.Color("#A6E3A1")
	colorWarn  = lipgloss.Color("#F9E2AF")
	colorCrit  = lipgloss.Color("#F38BA8")
	colorTrack = lipgloss.Color("#45475A")
	colorTitle = lipgloss.Color("#B4BEFE")
	colorHead  = lipgloss.Color("#89B4FA")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHead)
	trackStyle  = lipgloss.NewStyle().Foreground(colorTrack)
)

// renderBar draws a compact remaining-quota gauge: filled cells for what is
// left, a dim track for what is spent.
func renderBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	var color lipgloss.Color
	switch {
	case percent >= 80:
		color = colorOK
	case percent >= 20:
		color = colorWarn
	default:
		color = colorCrit
	}

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)) +
		trackStyle.Render(strings.Repeat("━", width-filled))
}
