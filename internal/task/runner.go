package task

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/upsweep-dev/upsweep/internal/exec"
	"github.com/upsweep-dev/upsweep/internal/registry"
	"github.com/upsweep-dev/upsweep/internal/report"
)

// tailLines is how many trailing output lines a task keeps for diagnostics.
const tailLines = 20

// outputBuffer collects a task's protocol lines. The task goroutine
// appends; the control loop peeks while the task runs and drains exactly
// once after it terminates, so late-arriving lines are never lost.
type outputBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *outputBuffer) append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
}

// peek returns a copy of the accumulated lines without consuming them.
func (b *outputBuffer) peek() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// drain returns the accumulated lines and empties the buffer, so a
// double drain is observable as an empty result.
func (b *outputBuffer) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.lines
	b.lines = nil
	return out
}

// Task is one running or finished upgrade operation.
type Task struct {
	// ID is the package id this task upgrades.
	ID string

	buf  outputBuffer
	done chan struct{}
}

// Finished reports whether the task goroutine has terminated.
func (t *Task) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Peek returns the output accumulated so far without consuming it.
func (t *Task) Peek() []string {
	return t.buf.peek()
}

// Drain returns the complete output and consumes the buffer; a second
// call returns nothing. Call only after Finished reports true, when the
// buffer is no longer written to.
func (t *Task) Drain() []string {
	return t.buf.drain()
}

// Runner launches upgrade tasks against the external package manager.
type Runner struct {
	exec   exec.CommandRunner
	binary string
	logf   func(format string, args ...interface{})
}

// NewRunner creates a Runner that invokes binary (normally "winget")
// through the given CommandRunner.
func NewRunner(cr exec.CommandRunner, binary string, logf func(format string, args ...interface{})) *Runner {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Runner{exec: cr, binary: binary, logf: logf}
}

// Launch starts one task for rec. A non-nil error means the task could
// not be started at all (infrastructure fault); no goroutine is running
// and the package must be withdrawn from the run.
func (r *Runner) Launch(ctx context.Context, rec report.Record) (*Task, error) {
	if _, err := r.exec.Resolve(r.binary); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", r.binary, err)
	}
	t := &Task{ID: rec.ID, done: make(chan struct{})}
	go r.run(ctx, rec, t)
	return t, nil
}

// run performs the upgrade and emits protocol lines. It maps recognizable
// markers in the tool's free-text output to phase transitions; the rest of
// the output is opaque and only the exit status matters.
func (r *Runner) run(ctx context.Context, rec report.Record, t *Task) {
	defer close(t.done)

	var (
		tail        []string
		downloading bool
		installing  bool
	)
	err := r.exec.RunStream(ctx, func(line string) {
		if s := strings.TrimSpace(line); s != "" {
			tail = append(tail, s)
			if len(tail) > tailLines {
				tail = tail[1:]
			}
		}
		switch {
		case !downloading && !installing && strings.Contains(line, "Downloading"):
			downloading = true
			t.buf.append(StatusLine(registry.StateDownloading, rec.ID))
		case !installing && (strings.Contains(line, "Installing") ||
			strings.Contains(line, "Starting package install")):
			installing = true
			t.buf.append(StatusLine(registry.StateInstalling, rec.ID))
		}
	}, r.binary, upgradeArgs(rec.ID)...)

	if err != nil {
		t.buf.append(ErrorLine(rec.ID, failureMessage(err, tail)))
		if len(tail) > 0 {
			t.buf.append(ErrorDetailLine(rec.ID, strings.Join(tail, " | ")))
		}
		t.buf.append(StatusLine(registry.StateFailed, rec.ID))
		r.logf("task %s: upgrade failed: %v", rec.ID, err)
		return
	}
	t.buf.append(StatusLine(registry.StateCompleted, rec.ID))
}

// upgradeArgs builds the winget invocation for a single package.
func upgradeArgs(id string) []string {
	return []string{
		"upgrade",
		"--id", id,
		"--exact",
		"--silent",
		"--accept-package-agreements",
		"--accept-source-agreements",
		"--disable-interactivity",
	}
}

// failureMessage prefers the tool's last output line over the bare exit
// error, which is usually just "exit status 1".
func failureMessage(err error, tail []string) string {
	if len(tail) > 0 {
		return tail[len(tail)-1]
	}
	return err.Error()
}
