package relay

import (
	"bufio"
	"errors"
	"io"
)

// ErrNoReader is returned when a read is attempted before any stream
// was bound to the channel. Once a launch succeeds this is
// unreachable.
var ErrNoReader = errors.New("no reader bound to the channel")

// LineChannel is a buffered reader over the generator's output stream
// that yields one newline-delimited record at a time. It is owned
// exclusively by the relay; reads append into a caller-owned buffer so
// a single allocation is reused across the run.
type LineChannel struct {
	r *bufio.Reader
}

// NewLineChannel creates an unbound channel. Bind attaches the stream
// once the generator has been spawned.
func NewLineChannel() *LineChannel {
	return &LineChannel{}
}

// Bind attaches the underlying byte stream.
func (c *LineChannel) Bind(r io.Reader) {
	c.r = bufio.NewReader(r)
}

// ReadLine blocks until a newline byte or end-of-stream is observed,
// appends everything read (including the newline, if present) to
// *buf, and returns the count of bytes appended.
//
// A final record without a trailing newline is returned intact with a
// nil error; the subsequent call reports io.EOF. Clean stream closure
// surfaces as io.EOF so callers can tell a generator that exited from
// an I/O fault.
func (c *LineChannel) ReadLine(buf *[]byte) (int, error) {
	if c.r == nil {
		return 0, ErrNoReader
	}

	record, err := c.r.ReadBytes('\n')
	*buf = append(*buf, record...)

	n := len(record)
	if err != nil {
		if errors.Is(err, io.EOF) && n > 0 {
			// Missing trailing newline on the last record; the data
			// still counts. EOF is reported on the next read.
			return n, nil
		}
		return n, err
	}
	return n, nil
}
