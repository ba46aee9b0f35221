package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/upsweep-dev/upsweep/internal/registry"
)

const (
	barWidth       = 30
	separatorWidth = 64
	// iconCol is the zero-based column of the state icon in package rows.
	// The animation-only path rewrites exactly this cell.
	iconCol = 2
)

var (
	sepStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	busyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Renderer is the plain-terminal frontend. It owns a fixed rectangle of
// output: on each Update it either rewrites the whole block (aggregate
// state changed), repaints only the spinner glyphs (animation tick), or
// does nothing. Change detection goes through a fingerprint of the
// ordered (id, state) pairs and the completed/total ratio so unchanged
// polls cost no redraw.
type Renderer struct {
	term   *Terminal
	frames []string

	frame   int
	baseKey string
	drawn   bool
	height  int
}

// New creates a Renderer writing to w, normally os.Stdout.
func New(w io.Writer) *Renderer {
	return &Renderer{
		term:   NewTerminal(w),
		frames: spinner.MiniDot.Frames,
	}
}

// Update renders the snapshot. Safe to call every poll: work is done
// only when the fingerprint or the animation frame needs it.
func (r *Renderer) Update(snap registry.Snapshot) {
	key := fingerprint(snap)
	switch {
	case !r.drawn:
		r.draw(snap, false)
		r.drawn = true
		r.baseKey = key
	case key != r.baseKey:
		r.draw(snap, true)
		r.baseKey = key
	default:
		r.animate(snap)
	}
}

// Close releases the block: the cursor is already below it, so just add
// a separating blank line.
func (r *Renderer) Close() {
	if r.drawn {
		r.term.Print("\n")
	}
}

// fingerprint summarizes the aggregate state cheaply. The animation
// frame is deliberately excluded: an unchanged fingerprint routes to the
// animation-only path.
func fingerprint(snap registry.Snapshot) string {
	var b strings.Builder
	for _, row := range snap.Rows {
		b.WriteString(row.Record.ID)
		b.WriteByte('=')
		b.WriteString(row.State.String())
		b.WriteByte(';')
	}
	fmt.Fprintf(&b, "%d/%d", snap.Completed, snap.Total)
	return b.String()
}

// draw writes the full block. When redraw is set the cursor is moved back
// to the block origin and each line is cleared and overwritten; the
// rectangle is stable because the package count is fixed for the run.
func (r *Renderer) draw(snap registry.Snapshot, redraw bool) {
	lines := r.buildLines(snap)
	if redraw {
		r.term.CursorUp(r.height)
	}
	for _, line := range lines {
		if redraw {
			r.term.ClearLine()
		}
		r.term.Print(line)
		r.term.Print("\n")
	}
	r.height = len(lines)
	r.term.SetBlockHeight(r.height)
}

// animate advances the spinner and repaints only the icon glyphs of
// packages still in a busy phase. Layout must match draw: package row i
// sits on block line i+1.
func (r *Renderer) animate(snap registry.Snapshot) {
	busy := false
	for _, row := range snap.Rows {
		if row.State.Busy() {
			busy = true
			break
		}
	}
	if !busy || !r.drawn {
		return
	}

	r.frame = (r.frame + 1) % len(r.frames)
	glyph := busyStyle.Render(r.frames[r.frame])
	for i, row := range snap.Rows {
		if !row.State.Busy() {
			continue
		}
		up := r.height - (i + 1)
		if !r.term.CursorUp(up) {
			continue
		}
		r.term.CursorCol(iconCol)
		r.term.Print(glyph)
		r.term.CursorDown(up)
		r.term.CursorCol(0)
	}
}

// buildLines produces the display block: separator, one row per package
// (snapshot order, ascending id), separator, progress bar, aggregate
// status line.
func (r *Renderer) buildLines(snap registry.Snapshot) []string {
	sep := sepStyle.Render(strings.Repeat("─", separatorWidth))

	nameW := 0
	for _, row := range snap.Rows {
		if n := utf8.RuneCountInString(row.Record.Name); n > nameW {
			nameW = n
		}
	}

	lines := make([]string, 0, len(snap.Rows)+4)
	lines = append(lines, sep)
	for _, row := range snap.Rows {
		pad := strings.Repeat(" ", nameW-utf8.RuneCountInString(row.Record.Name))
		versions := versionStyle.Render(
			fmt.Sprintf("%s → %s", row.Record.Current, row.Record.Available))
		lines = append(lines, fmt.Sprintf("  %s %s%s  %s",
			r.icon(row.State), row.Record.Name, pad, versions))
	}
	lines = append(lines, sep)
	lines = append(lines, "  "+r.progressBar(snap.Completed, snap.Total))
	lines = append(lines, "  "+statusSummary(snap))
	return lines
}

// icon picks the state glyph. Busy states show the current spinner frame.
func (r *Renderer) icon(s registry.State) string {
	switch {
	case s == registry.StateCompleted:
		return doneStyle.Render("✓")
	case s == registry.StateFailed:
		return failStyle.Render("✗")
	case s.Busy():
		return busyStyle.Render(r.frames[r.frame])
	default:
		return queuedStyle.Render("·")
	}
}

// progressBar renders a fixed-width proportional bar with counts.
func (r *Renderer) progressBar(completed, total int) string {
	filled := 0
	if total > 0 {
		filled = completed * barWidth / total
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := barStyle.Render(strings.Repeat("█", filled)) +
		sepStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("[%s] %d/%d", bar, completed, total)
}

// statusSummary tallies non-empty states in machine order, e.g.
// "Downloading 2, Installing 1, Completed 3".
func statusSummary(snap registry.Snapshot) string {
	counts := make(map[registry.State]int)
	for _, row := range snap.Rows {
		counts[row.State]++
	}
	order := []registry.State{
		registry.StateQueued,
		registry.StateProcessing,
		registry.StateDownloading,
		registry.StateInstalling,
		registry.StateCompleted,
		registry.StateFailed,
	}
	var parts []string
	for _, s := range order {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", s, n))
		}
	}
	if len(parts) == 0 {
		return "idle"
	}
	return strings.Join(parts, ", ")
}
