package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/barpipe/barpipe/internal/process"
	"github.com/barpipe/barpipe/internal/protocol"
)

// ErrNoOutputHandle is returned when the generator spawned but its
// output stream could not be captured.
var ErrNoOutputHandle = errors.New("generator output handle unavailable")

// State identifies the relay's position in the protocol. The first
// four states are one-shot transitions on run start; SteadyState only
// exits through a fatal read or write error.
type State int

const (
	StateSpawning State = iota
	StateHeaderExchange
	StateArrayOpen
	StateFirstElement
	StateSteadyState
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateSpawning:
		return "spawning"
	case StateHeaderExchange:
		return "header-exchange"
	case StateArrayOpen:
		return "array-open"
	case StateFirstElement:
		return "first-element"
	case StateSteadyState:
		return "steady-state"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Relay owns the generator subprocess, the line channel over its
// output, and the output sink for the lifetime of one run. No other
// component writes to the sink or terminates the subprocess.
type Relay struct {
	launcher process.Launcher
	cmd      process.Command
	channel  *LineChannel
	out      io.Writer
	logger   *log.Logger

	// buf holds at most one in-flight record between a read and its
	// flush. It is reused across the whole run.
	buf   []byte
	state State
}

// New creates a relay that will launch cmd via launcher and forward
// its protocol stream to out. Diagnostics go to logger, never to out.
func New(launcher process.Launcher, cmd process.Command, out io.Writer, logger *log.Logger) *Relay {
	return &Relay{
		launcher: launcher,
		cmd:      cmd,
		channel:  NewLineChannel(),
		out:      out,
		logger:   logger,
		state:    StateSpawning,
	}
}

// State reports the relay's current protocol state.
func (r *Relay) State() State {
	return r.state
}

// Run drives the protocol to completion: spawn the generator, rewrite
// the header, forward the array opening and the first element, then
// forward every further line until the stream ends.
//
// Run never returns nil: the steady state is unbounded, so the run
// only ends when the stream closes (io.EOF, generator exited) or an
// I/O operation fails. No error is retried.
func (r *Relay) Run(ctx context.Context) error {
	r.state = StateSpawning
	handle, err := r.launcher.Spawn(ctx, r.cmd)
	if err != nil {
		r.state = StateAborted
		return err
	}

	stdout := handle.Stdout()
	if stdout == nil {
		r.logger.Printf("could not acquire a handle to the generator's stdout")
		r.logger.Printf("killing generator (pid %d)", handle.PID())
		if killErr := handle.Terminate(); killErr != nil {
			r.logger.Printf("failed to kill generator: %v", killErr)
		}
		r.state = StateAborted
		return ErrNoOutputHandle
	}
	r.channel.Bind(stdout)

	r.state = StateHeaderExchange
	if err := r.pipeHeader(); err != nil {
		return fmt.Errorf("header exchange: %w", err)
	}

	// The literal start of the infinite array, typically "[".
	r.state = StateArrayOpen
	if err := r.pipeLine(); err != nil {
		return fmt.Errorf("array open: %w", err)
	}

	// The first element is the only one emitted without a leading
	// separator.
	r.state = StateFirstElement
	if err := r.pipeLine(); err != nil {
		return fmt.Errorf("first element: %w", err)
	}

	r.state = StateSteadyState
	for {
		if err := r.pipeLine(); err != nil {
			return err
		}
	}
}

// pipeHeader reads the generator's header line, forces click_events on,
// and forwards the re-encoded header. The header line is never
// comma-prefixed, so it flushes like any other record.
func (r *Relay) pipeHeader() error {
	if _, err := r.channel.ReadLine(&r.buf); err != nil {
		return err
	}

	header, err := protocol.DecodeHeader(r.buf)
	if err != nil {
		return err
	}

	encoded, err := header.WithClickEvents(true).Encode()
	if err != nil {
		return err
	}

	r.buf = append(r.buf[:0], encoded...)
	return r.flushBuffer()
}

// pipeLine forwards exactly one record verbatim.
func (r *Relay) pipeLine() error {
	if _, err := r.channel.ReadLine(&r.buf); err != nil {
		return err
	}
	return r.flushBuffer()
}

// flushBuffer writes the buffered record and clears the buffer. If the
// record does not already end in a newline, exactly one is appended,
// so every record boundary in the outbound stream is a single newline
// regardless of what the source produced.
func (r *Relay) flushBuffer() error {
	record := r.buf
	if n := len(record); n == 0 || record[n-1] != '\n' {
		record = append(record, '\n')
	}
	if _, err := r.out.Write(record); err != nil {
		return fmt.Errorf("write to output sink: %w", err)
	}
	r.buf = r.buf[:0]
	return nil
}

// WriteMessage injects a relay-originated notice into the stream: the
// text becomes the full_text of a single default block, encoded as a
// one-element array and flushed as a complete record, followed by the
// bare array separator with no newline so the append-only framing
// stays intact for whatever is forwarded next.
func (r *Relay) WriteMessage(text string) error {
	encoded, err := protocol.EncodeBlocks([]protocol.Block{{FullText: text}})
	if err != nil {
		return err
	}

	r.buf = append(r.buf[:0], encoded...)
	if err := r.flushBuffer(); err != nil {
		return err
	}

	if _, err := io.WriteString(r.out, ","); err != nil {
		return fmt.Errorf("write to output sink: %w", err)
	}
	return nil
}
