package process

import (
	"context"
	"io"
)

// Handle represents a running generator process.
type Handle interface {
	// PID returns the process ID.
	PID() int

	// Stdout returns the captured output reader. It is nil only in the
	// edge case where the spawn succeeded but capture failed; callers
	// must check before reading.
	Stdout() io.ReadCloser

	// Wait blocks until the process exits.
	Wait() error

	// Terminate forcefully ends the process. Used on the abort path so
	// a generator whose output could not be captured is not orphaned.
	Terminate() error
}

// Launcher spawns generator processes.
type Launcher interface {
	// Spawn launches the generator described by cmd with its input
	// stream discarded, its output captured, and its error stream
	// passed through unmodified.
	Spawn(ctx context.Context, cmd Command) (Handle, error)
}
