package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/upsweep-dev/upsweep/internal/registry"
	"github.com/upsweep-dev/upsweep/internal/report"
)

func snapshotOf(states ...registry.State) registry.Snapshot {
	snap := registry.Snapshot{Total: len(states)}
	names := []string{"Alpha App", "Beta App", "Gamma App", "Delta App"}
	for i, s := range states {
		snap.Rows = append(snap.Rows, registry.Row{
			Record: report.Record{
				Name: names[i%len(names)], ID: "Vendor." + names[i%len(names)],
				Current: "1.0", Available: "2.0",
			},
			State: s,
		})
		if s.Terminal() {
			snap.Completed++
		}
	}
	return snap
}

func TestUpdate_FirstDrawWritesFullBlock(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Update(snapshotOf(registry.StateQueued, registry.StateDownloading))

	out := buf.String()
	for _, want := range []string{"Alpha App", "Beta App", "1.0 → 2.0", "0/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("first draw missing %q in %q", want, out)
		}
	}
	// No clearing or repositioning on the first draw: there is no block
	// to return to.
	if strings.Contains(out, "\x1b[2K") || strings.Contains(out, "\x1b[6A") {
		t.Errorf("first draw must not clear or reposition: %q", out)
	}
	// Block height is rows + separators + bar + summary.
	if got := strings.Count(out, "\n"); got != 2+4 {
		t.Errorf("first draw emitted %d lines, want 6", got)
	}
}

func TestUpdate_UnchangedSnapshotAnimatesOnly(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	snap := snapshotOf(registry.StateQueued, registry.StateDownloading)

	r.Update(snap)
	buf.Reset()
	r.Update(snap)

	out := buf.String()
	if strings.Contains(out, "Alpha App") || strings.Contains(out, "Beta App") {
		t.Errorf("animation tick repainted rows: %q", out)
	}
	if strings.Contains(out, "\x1b[2K") {
		t.Errorf("animation tick cleared lines: %q", out)
	}
	// The busy row's icon cell is rewritten in place.
	if !strings.Contains(out, "\x1b[3G") {
		t.Errorf("animation tick did not address the icon column: %q", out)
	}
}

func TestUpdate_UnchangedIdleSnapshotIsSilent(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	snap := snapshotOf(registry.StateQueued, registry.StateQueued)

	r.Update(snap)
	buf.Reset()
	r.Update(snap)

	if buf.Len() != 0 {
		t.Errorf("no busy rows, expected no output, got %q", buf.String())
	}
}

func TestUpdate_StateChangeRedraws(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Update(snapshotOf(registry.StateDownloading, registry.StateQueued))
	buf.Reset()
	r.Update(snapshotOf(registry.StateInstalling, registry.StateQueued))

	out := buf.String()
	// Redraw returns to the block origin (6 lines up) and clears each line.
	if !strings.Contains(out, "\x1b[6A") {
		t.Errorf("redraw did not move to block origin: %q", out)
	}
	if strings.Count(out, "\x1b[2K") != 6 {
		t.Errorf("redraw cleared %d lines, want 6", strings.Count(out, "\x1b[2K"))
	}
	if !strings.Contains(out, "Alpha App") {
		t.Errorf("redraw missing rows: %q", out)
	}
}

func TestUpdate_CompletionChangesFingerprint(t *testing.T) {
	a := snapshotOf(registry.StateInstalling, registry.StateInstalling)
	b := snapshotOf(registry.StateInstalling, registry.StateCompleted)

	if fingerprint(a) == fingerprint(b) {
		t.Error("fingerprints must differ when a state changes")
	}
	if fingerprint(a) != fingerprint(snapshotOf(registry.StateInstalling, registry.StateInstalling)) {
		t.Error("fingerprints must match for identical snapshots")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		filled    int
	}{
		{"empty", 0, 4, 0},
		{"half", 2, 4, 15},
		{"full", 4, 4, 30},
		{"zero total", 0, 0, 0},
	}
	r := New(&bytes.Buffer{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := r.progressBar(tt.completed, tt.total)
			if got := strings.Count(bar, "█"); got != tt.filled {
				t.Errorf("filled cells = %d, want %d", got, tt.filled)
			}
			if got := strings.Count(bar, "░"); got != barWidth-tt.filled {
				t.Errorf("empty cells = %d, want %d", got, barWidth-tt.filled)
			}
		})
	}
}

func TestStatusSummary(t *testing.T) {
	snap := snapshotOf(
		registry.StateDownloading,
		registry.StateDownloading,
		registry.StateCompleted,
		registry.StateQueued,
	)
	got := statusSummary(snap)
	if got != "Queued 1, Downloading 2, Completed 1" {
		t.Errorf("statusSummary() = %q", got)
	}

	if got := statusSummary(registry.Snapshot{}); got != "idle" {
		t.Errorf("statusSummary(empty) = %q, want idle", got)
	}
}

func TestTerminal_OutOfBoundsMotionDropped(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	term.SetBlockHeight(3)

	if term.CursorUp(4) {
		t.Error("CursorUp beyond the block must be dropped")
	}
	if term.CursorUp(0) {
		t.Error("CursorUp(0) must be dropped")
	}
	if buf.Len() != 0 {
		t.Errorf("dropped motion wrote %q", buf.String())
	}
	if !term.CursorUp(3) {
		t.Error("in-bounds motion must land")
	}
	if buf.String() != "\x1b[3A" {
		t.Errorf("CursorUp(3) wrote %q", buf.String())
	}
}
