package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/upsweep-dev/upsweep/internal/registry"
	"github.com/upsweep-dev/upsweep/internal/task"
)

// DefaultPollInterval is the pause between control-loop polls. Short
// enough to animate the spinner, long enough not to burn a core.
const DefaultPollInterval = 120 * time.Millisecond

// Frontend receives registry snapshots each poll. The plain renderer and
// the TUI both implement it; neither ever touches the registry directly.
type Frontend interface {
	Update(snap registry.Snapshot)
	Close()
}

// Session is one orchestration run over a seeded registry.
//
// Concurrency model: Run executes on a single control goroutine that owns
// all registry access. Tasks run as independent goroutines, unbounded, one
// per package; they communicate only through their output buffers. No
// cross-task ordering is guaranteed.
type Session struct {
	Registry *registry.Registry
	Runner   *task.Runner
	Updater  *task.Updater
	Frontend Frontend
	Logger   *DebugLogger

	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration
}

// Result summarizes a finished (or abandoned) run.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	// Dispatched counts successfully launched tasks. Launch failures are
	// withdrawn from the registry and appear in none of these counts.
	Dispatched int
	Succeeded  int
	Failed     int
}

// Run dispatches every queued package and polls until all tasks retire
// or ctx is canceled. On cancellation, finished upgrades stay finished
// and in-flight ones are abandoned; the partial result is returned with
// ctx's error.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     uuid.New().String()[:8],
		StartedAt: time.Now(),
	}
	s.Logger.Log("run %s: dispatching %d packages", res.RunID, s.Registry.Len())

	tasks := s.dispatch(ctx)
	res.Dispatched = len(tasks)
	total := len(tasks)

	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var runErr error
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

poll:
	for len(tasks) > 0 {
		for _, id := range s.Updater.Poll(tasks, time.Now()) {
			s.Logger.Log("run %s: %s retired as %s", res.RunID, id, s.Registry.Get(id).State)
			delete(tasks, id)
		}
		s.Frontend.Update(s.Registry.Snapshot(total))

		if len(tasks) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			s.Logger.Log("run %s: interrupted with %d tasks in flight", res.RunID, len(tasks))
			runErr = ctx.Err()
			break poll
		case <-ticker.C:
		}
	}

	s.Frontend.Update(s.Registry.Snapshot(total))
	s.Frontend.Close()

	counts := s.Registry.CountByState()
	res.Succeeded = counts[registry.StateCompleted]
	res.Failed = counts[registry.StateFailed]
	res.FinishedAt = time.Now()
	s.Logger.Log("run %s: done, %d succeeded, %d failed", res.RunID, res.Succeeded, res.Failed)
	return res, runErr
}

// dispatch launches one task per registry entry. A package whose task
// cannot be launched is an infrastructure fault, not a package fault: it
// is withdrawn from the registry, reported at debug level only, and
// counted as neither succeeded nor failed.
func (s *Session) dispatch(ctx context.Context) map[string]*task.Task {
	tasks := make(map[string]*task.Task, s.Registry.Len())
	for _, id := range append([]string(nil), s.Registry.IDs()...) {
		e := s.Registry.Get(id)
		t, err := s.Runner.Launch(ctx, e.Record)
		if err != nil {
			s.Logger.Log("dispatch: dropping %s, task launch failed: %v", id, err)
			s.Registry.Remove(id)
			continue
		}
		tasks[id] = t
	}
	return tasks
}
