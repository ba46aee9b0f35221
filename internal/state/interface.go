package state

import "time"

// Run is one recorded orchestration run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Dispatched int
	Succeeded  int
	Failed     int
	Skipped    int
	Packages   []RunPackage
}

// RunPackage is the outcome of a single package within a run.
type RunPackage struct {
	PackageID    string
	Name         string
	FromVersion  string
	ToVersion    string
	State        string
	ErrorMessage string
	Duration     time.Duration
}

// RunStore defines the interface for run-history persistence.
type RunStore interface {
	// RecordRun stores a finished run and its per-package outcomes.
	RecordRun(run *Run) error

	// GetRun retrieves a run with its packages, or nil if not found.
	GetRun(id string) (*Run, error)

	// ListRuns returns up to limit runs, newest first, without packages.
	ListRuns(limit int) ([]*Run, error)

	// Close closes the store.
	Close() error
}

// Verify DB implements the interface at compile time.
var _ RunStore = (*DB)(nil)
