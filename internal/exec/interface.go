// Package exec provides an interface for running the external package
// manager command.
package exec

import (
	"context"
)

// CommandRunner defines the interface for running external commands.
// This abstraction allows mocking the package manager in tests.
type CommandRunner interface {
	// Run executes a command and returns combined stdout/stderr output.
	Run(ctx context.Context, name string, args ...string) (output []byte, err error)

	// RunStream executes a command and delivers each output line to
	// onLine as it arrives. stdout and stderr are interleaved. The
	// returned error reflects the command's exit status.
	RunStream(ctx context.Context, onLine func(line string), name string, args ...string) error

	// Resolve reports whether name can be found in PATH, returning the
	// resolved path.
	Resolve(name string) (string, error)
}
