// Package registry holds the live upgrade state for every dispatched
// package. The registry is the single source of truth driving both
// dispatch and rendering.
//
// Concurrency discipline: all writes happen on the orchestrator's control
// goroutine (single-writer). Upgrade tasks never touch the registry; they
// communicate through their output buffers only. Readers (renderer,
// summary) run on the same control goroutine, so no locking is needed.
package registry

import (
	"sort"
	"time"

	"github.com/upsweep-dev/upsweep/internal/report"
)

// State is the lifecycle state of one package upgrade.
type State int

const (
	StateQueued State = iota
	StateProcessing
	StateDownloading
	StateInstalling
	StateCompleted
	StateFailed
)

var stateNames = map[State]string{
	StateQueued:      "Queued",
	StateProcessing:  "Processing",
	StateDownloading: "Downloading",
	StateInstalling:  "Installing",
	StateCompleted:   "Completed",
	StateFailed:      "Failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "Unknown"
}

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Busy reports whether s is an in-flight phase: past the queue but not
// yet terminal. Busy entries get the spinner treatment in the renderer.
func (s State) Busy() bool {
	return s > StateQueued && !s.Terminal()
}

// PhaseFromName maps a protocol phase name to a State. Only the phases a
// task may emit are recognized.
func PhaseFromName(name string) (State, bool) {
	switch name {
	case "Downloading":
		return StateDownloading, true
	case "Installing":
		return StateInstalling, true
	case "Completed":
		return StateCompleted, true
	case "Failed":
		return StateFailed, true
	}
	return StateQueued, false
}

// PackageStatus is the mutable per-package entry. It is owned by the
// registry and written only by the status updater.
type PackageStatus struct {
	Record report.Record
	State  State

	// ErrorMessage and ErrorDetail are set only on a Failed terminal state.
	ErrorMessage string
	ErrorDetail  string

	// StartedAt is set on the first transition away from Queued,
	// FinishedAt on any terminal transition. Zero until then.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Registry maps package IDs to their mutable status.
type Registry struct {
	entries map[string]*PackageStatus
	order   []string // ids sorted ascending, kept in sync with entries
}

// Seed filters records against the skip set and builds the initial
// registry with one Queued entry per remaining record. Returns the
// registry, the queued count, and the skipped count. Pure: no I/O.
func Seed(records []report.Record, skip map[string]struct{}) (*Registry, int, int) {
	r := &Registry{entries: make(map[string]*PackageStatus, len(records))}
	skipped := 0
	for _, rec := range records {
		if _, ok := skip[rec.ID]; ok {
			skipped++
			continue
		}
		r.entries[rec.ID] = &PackageStatus{Record: rec, State: StateQueued}
		r.order = append(r.order, rec.ID)
	}
	sort.Strings(r.order)
	return r, len(r.entries), skipped
}

// Get returns the entry for id, or nil.
func (r *Registry) Get(id string) *PackageStatus {
	return r.entries[id]
}

// IDs returns the package ids in ascending order. Callers must not
// modify the returned slice.
func (r *Registry) IDs() []string {
	return r.order
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Remove deletes an entry. Used only when task launch itself fails: a
// launch failure is an infrastructure fault, not a package fault, so the
// package is counted as neither succeeded nor failed.
func (r *Registry) Remove(id string) {
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Advance moves the entry for id forward to next. Transitions are
// monotonic: a request to move backward or to leave a terminal state is
// ignored. Missing intermediate phases are fine; the machine only moves
// forward. Returns true when the state actually changed.
func (r *Registry) Advance(id string, next State, now time.Time) bool {
	e := r.entries[id]
	if e == nil || e.State.Terminal() || next <= e.State {
		return false
	}
	if e.State == StateQueued {
		e.StartedAt = now
	}
	e.State = next
	if next.Terminal() {
		e.FinishedAt = now
	}
	return true
}

// Fail moves the entry for id to Failed and records the diagnostic
// message and optional detail. No-op for terminal entries.
func (r *Registry) Fail(id, message, detail string, now time.Time) bool {
	e := r.entries[id]
	if e == nil || e.State.Terminal() {
		return false
	}
	if !r.Advance(id, StateFailed, now) {
		return false
	}
	e.ErrorMessage = message
	e.ErrorDetail = detail
	return true
}

// TerminalCount returns how many entries reached a final state.
func (r *Registry) TerminalCount() int {
	n := 0
	for _, e := range r.entries {
		if e.State.Terminal() {
			n++
		}
	}
	return n
}

// CountByState tallies entries per state.
func (r *Registry) CountByState() map[State]int {
	counts := make(map[State]int, len(stateNames))
	for _, e := range r.entries {
		counts[e.State]++
	}
	return counts
}

// Row is one line of a Snapshot: the immutable record plus the state
// observed at snapshot time.
type Row struct {
	Record report.Record
	State  State
}

// Snapshot is the ephemeral render input: rows ordered by id plus
// aggregate counts, regenerated on every poll. Handing renderers a
// snapshot instead of the registry keeps registry access confined to the
// control goroutine.
type Snapshot struct {
	Rows      []Row
	Total     int
	Completed int // entries in a terminal state
}

// Snapshot derives the current render frame. total is the number of
// originally dispatched packages, which may exceed Len after launch
// failures removed entries.
func (r *Registry) Snapshot(total int) Snapshot {
	snap := Snapshot{
		Rows:  make([]Row, 0, len(r.order)),
		Total: total,
	}
	for _, id := range r.order {
		e := r.entries[id]
		snap.Rows = append(snap.Rows, Row{Record: e.Record, State: e.State})
		if e.State.Terminal() {
			snap.Completed++
		}
	}
	return snap
}
