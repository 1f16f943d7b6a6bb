package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ErrSpawnFailed wraps any failure to locate or start the generator.
var ErrSpawnFailed = errors.New("failed to spawn generator")

// OSLauncher launches real generator processes via the OS.
type OSLauncher struct {
	stderr io.Writer
}

// NewOSLauncher creates a launcher whose spawned processes write their
// error stream to the relay's own stderr, keeping generator
// diagnostics visible to whoever launched the relay.
func NewOSLauncher() *OSLauncher {
	return &OSLauncher{stderr: os.Stderr}
}

// NewOSLauncherWithStderr creates a launcher that redirects the
// generator's error stream to w. The inspect view uses this to keep
// generator noise off the terminal it is drawing on.
func NewOSLauncherWithStderr(w io.Writer) *OSLauncher {
	return &OSLauncher{stderr: w}
}

// Spawn implements Launcher. Stdin is left unset so the generator
// reads from the null device; stdout is piped for the relay to
// consume; stderr is inherited.
func (l *OSLauncher) Spawn(ctx context.Context, cmd Command) (Handle, error) {
	execCmd := exec.CommandContext(ctx, cmd.Executable(), cmd.Args()...)
	execCmd.Stderr = l.stderr

	stdout, err := execCmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot capture stdout of %s: %v", ErrSpawnFailed, cmd.Executable(), err)
	}

	if err := execCmd.Start(); err != nil {
		stdout.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawnFailed, cmd.Executable(), err)
	}

	return &osHandle{cmd: execCmd, stdout: stdout}, nil
}

type osHandle struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

func (h *osHandle) PID() int {
	if h.cmd.Process == nil {
		return -1
	}
	return h.cmd.Process.Pid
}

func (h *osHandle) Stdout() io.ReadCloser {
	return h.stdout
}

func (h *osHandle) Wait() error {
	return h.cmd.Wait()
}

func (h *osHandle) Terminate() error {
	if h.cmd.Process == nil {
		return fmt.Errorf("process not running")
	}
	return h.cmd.Process.Kill()
}
