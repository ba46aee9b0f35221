package exec

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SimulatedRunner fakes the package manager for demos and tests. It
// resolves any binary, answers `upgrade` with a canned report, and
// walks upgrades through a scripted download/install sequence.
type SimulatedRunner struct {
	// Report is returned verbatim for a bare `upgrade` invocation.
	Report string
	// FailIDs lists package IDs whose upgrade should end in error.
	FailIDs map[string]struct{}
	// StepDelay paces the streamed phases. Zero means no delay.
	StepDelay time.Duration
}

var _ CommandRunner = (*SimulatedRunner)(nil)

// Resolve always succeeds; the simulated binary needs no PATH entry.
func (s *SimulatedRunner) Resolve(name string) (string, error) {
	return name, nil
}

// Run answers report queries with the canned report.
func (s *SimulatedRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte(s.Report), nil
}

// RunStream plays out a scripted upgrade for the --id argument.
func (s *SimulatedRunner) RunStream(ctx context.Context, onLine func(string), name string, args ...string) error {
	id := flagValue(args, "--id")

	steps := []string{
		"Found " + id,
		"Downloading https://example.invalid/" + id,
		"Starting package install...",
	}
	for _, line := range steps {
		if err := s.pause(ctx); err != nil {
			return err
		}
		onLine(line)
	}

	if _, fail := s.FailIDs[id]; fail {
		onLine("Installer failed with exit code: 1603")
		return fmt.Errorf("exit status 1603")
	}
	onLine("Successfully installed")
	return nil
}

func (s *SimulatedRunner) pause(ctx context.Context) error {
	if s.StepDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.StepDelay):
		return nil
	}
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(a, flag+"="); ok {
			return v
		}
	}
	return ""
}
