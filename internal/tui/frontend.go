package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/upsweep-dev/upsweep/internal/registry"
)

// Frontend adapts a Bubble Tea program to the orchestrator's frontend
// interface. The program runs on its own goroutine; snapshots arrive
// via Send, so the control loop never blocks on rendering.
type Frontend struct {
	program *tea.Program
	done    chan struct{}
}

// Start launches the TUI program.
func Start() *Frontend {
	f := &Frontend{done: make(chan struct{})}
	f.program = tea.NewProgram(NewModel())
	go func() {
		defer close(f.done)
		f.program.Run()
	}()
	return f
}

// Update delivers a snapshot to the running program.
func (f *Frontend) Update(snap registry.Snapshot) {
	f.program.Send(snapshotMsg(snap))
}

// Close tells the program to quit and waits for it to release the
// terminal before the summary prints.
func (f *Frontend) Close() {
	f.program.Send(doneMsg{})
	<-f.done
}
