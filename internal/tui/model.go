// Package tui is the full-screen alternative to the plain in-place
// renderer, built on Bubble Tea. It consumes the same registry
// snapshots as the plain frontend and never touches the registry.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/upsweep-dev/upsweep/internal/registry"
)

// snapshotMsg delivers a fresh registry snapshot to the model.
type snapshotMsg registry.Snapshot

// doneMsg tells the model the run is over and it should quit.
type doneMsg struct{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Model renders the upgrade run as a package list with a progress bar.
type Model struct {
	spinner  spinner.Model
	progress progress.Model
	snap     registry.Snapshot
	quitting bool
}

// NewModel returns a Model ready for tea.NewProgram.
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	p := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	return Model{spinner: s, progress: p}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = registry.Snapshot(msg)
		return m, nil
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// The control loop handles the actual cancellation; the
			// model just keeps drawing until it is told to quit.
			return m, nil
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Upgrading packages"))
	b.WriteString("\n\n")

	for _, row := range m.snap.Rows {
		b.WriteString("  ")
		b.WriteString(m.icon(row.State))
		b.WriteString(" ")
		b.WriteString(row.Record.Name)
		b.WriteString(" ")
		b.WriteString(versionStyle.Render(fmt.Sprintf("%s → %s", row.Record.Current, row.Record.Available)))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	ratio := 0.0
	if m.snap.Total > 0 {
		ratio = float64(m.snap.Completed) / float64(m.snap.Total)
	}
	b.WriteString(m.progress.ViewAs(ratio))
	b.WriteString(fmt.Sprintf("  %d/%d\n", m.snap.Completed, m.snap.Total))

	return b.String()
}

func (m Model) icon(s registry.State) string {
	switch {
	case s == registry.StateCompleted:
		return doneStyle.Render("✓")
	case s == registry.StateFailed:
		return failStyle.Render("✗")
	case s.Busy():
		return m.spinner.View()
	default:
		return queuedStyle.Render("·")
	}
}
