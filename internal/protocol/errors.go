package protocol

import "fmt"

// DecodeError reports a protocol value that could not be decoded.
// Value holds the offending input so diagnostics name exactly what
// was rejected.
type DecodeError struct {
	Value  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%q %s", e.Value, e.Reason)
}
