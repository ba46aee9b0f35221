package task

import (
	"sort"
	"time"

	"github.com/upsweep-dev/upsweep/internal/registry"
)

// Updater advances the registry from task output. It runs on the
// orchestrator's control goroutine and is the registry's only writer.
type Updater struct {
	reg  *registry.Registry
	logf func(format string, args ...interface{})
}

// NewUpdater creates an Updater writing into reg.
func NewUpdater(reg *registry.Registry, logf func(format string, args ...interface{})) *Updater {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Updater{reg: reg, logf: logf}
}

// Poll inspects every task once. Running tasks are peeked and their most
// recent STATUS line applied; finished tasks are drained, classified, and
// returned (sorted) so the caller can retire them from the active set.
func (u *Updater) Poll(tasks map[string]*Task, now time.Time) []string {
	var retired []string
	for id, t := range tasks {
		if t.Finished() {
			u.finalize(id, t.Drain(), now)
			retired = append(retired, id)
			continue
		}
		u.observe(id, t.Peek(), now)
	}
	sort.Strings(retired)
	return retired
}

// observe applies the latest non-terminal STATUS event for id from a
// running task's peeked output. Terminal phases are left for finalize:
// a task may append its terminal status moments before its goroutine
// exits, and advancing to terminal here would lock the entry before the
// ERROR/ERRORDETAIL lines are attached.
func (u *Updater) observe(id string, lines []string, now time.Time) {
	for i := len(lines) - 1; i >= 0; i-- {
		ev := ParseEvent(lines[i])
		if ev.Kind != KindStatus || ev.ID != id {
			continue
		}
		if ev.Phase.Terminal() {
			continue
		}
		u.reg.Advance(id, ev.Phase, now)
		return
	}
	// No in-flight status yet: the task is started but the tool has not
	// reported a phase. That still counts as leaving the queue.
	u.reg.Advance(id, registry.StateProcessing, now)
}

// finalize classifies a finished task from its complete output. A task
// that terminated without an explicit Completed status is ambiguous and
// maps to Failed, whatever its exit looked like.
func (u *Updater) finalize(id string, lines []string, now time.Time) {
	var (
		last      Event
		hasStatus bool
		errMsg    string
		errDetail string
	)
	for _, line := range lines {
		ev := ParseEvent(line)
		switch ev.Kind {
		case KindStatus:
			if ev.ID == id {
				last = ev
				hasStatus = true
			}
		case KindError:
			if ev.ID == id {
				errMsg = ev.Text
			}
		case KindErrorDetail:
			if ev.ID == id {
				errDetail = ev.Text
			}
		case KindUnrecognized:
			if line != "" {
				u.logf("task %s: unrecognized output: %q", id, line)
			}
		}
	}

	if hasStatus && last.Phase == registry.StateCompleted {
		u.reg.Advance(id, registry.StateCompleted, now)
		return
	}
	if errMsg == "" {
		errMsg = "task ended without reporting completion"
	}
	u.reg.Fail(id, errMsg, errDetail, now)
}
