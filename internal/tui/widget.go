// Package tui shows the quota table in a transient terminal popup.
package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glancelabs/quotaglance/internal/core"
	"github.com/glancelabs/quotaglance/internal/table"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#585B70"))

type dismissMsg struct{}

// RowsMsg replaces the displayed rows; the watch loop sends it after a
// refetch.
type RowsMsg struct {
	Rows []core.QuotaRow
}

// Model is the popup: a rendered table, a dismiss countdown and nothing
// else. Keys q, esc and enter close it; any resize re-renders at the new
// width.
type Model struct {
	rows       []core.QuotaRow
	width      int
	forceWidth int
	dismissIn  time.Duration
}

// NewModel builds the popup. forceWidth pins the render width regardless of
// the terminal; zero means follow the terminal. dismissAfter <= 0 disables
// auto-dismiss.
func NewModel(rows []core.QuotaRow, forceWidth int, dismissAfter time.Duration) Model {
	return Model{
		rows:       rows,
		forceWidth: forceWidth,
		dismissIn:  dismissAfter,
	}
}

func (m Model) Init() tea.Cmd {
	if m.dismissIn <= 0 {
		return nil
	}
	return tea.Tick(m.dismissIn, func(time.Time) tea.Msg { return dismissMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case RowsMsg:
		m.rows = msg.Rows
	case dismissMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	width := m.renderWidth()
	lines := table.Render(m.rows, width)
	footer := footerStyle.Render("q dismiss")
	if width > 0 {
		footer = lipgloss.NewStyle().MaxWidth(width).Render(footer)
	}
	return strings.Join(lines, "\n") + "\n" + footer + "\n"
}

func (m Model) renderWidth() int {
	if m.forceWidth > 0 {
		return m.forceWidth
	}
	return m.width
}

// Run blocks until the popup is dismissed. onStart receives the running
// program so a caller can push RowsMsg updates into it.
func Run(m Model, onStart func(*tea.Program)) error {
	p := tea.NewProgram(m)
	if onStart != nil {
		onStart(p)
	}
	_, err := p.Run()
	return err
}
