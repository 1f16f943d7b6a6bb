package protocol

import (
	"bytes"
	"encoding/json"
)

// Header is the opening JSON object of the status-line stream. It is
// exchanged exactly once per run: the generator emits it as its first
// line, the relay rewrites click_events and forwards it.
//
// Version is required by the wire format; the remaining fields are
// optional and omitted from the encoding when absent.
type Header struct {
	Version     int   `json:"version"`
	StopSignal  *int  `json:"stop_signal,omitempty"`
	ContSignal  *int  `json:"cont_signal,omitempty"`
	ClickEvents *bool `json:"click_events,omitempty"`
}

// DecodeHeader parses a single header line. It fails with a
// *DecodeError if the line is not a valid JSON object or the required
// version field is missing or non-integral.
func DecodeHeader(line []byte) (Header, error) {
	var raw struct {
		Version     *int  `json:"version"`
		StopSignal  *int  `json:"stop_signal"`
		ContSignal  *int  `json:"cont_signal"`
		ClickEvents *bool `json:"click_events"`
	}

	trimmed := string(bytes.TrimSpace(line))

	if err := json.Unmarshal(line, &raw); err != nil {
		return Header{}, &DecodeError{
			Value:  trimmed,
			Reason: "is not a valid protocol header: " + err.Error(),
		}
	}

	if raw.Version == nil {
		return Header{}, &DecodeError{
			Value:  trimmed,
			Reason: `is missing the required "version" field`,
		}
	}

	return Header{
		Version:     *raw.Version,
		StopSignal:  raw.StopSignal,
		ContSignal:  raw.ContSignal,
		ClickEvents: raw.ClickEvents,
	}, nil
}

// WithClickEvents returns a copy of the header with the click_events
// capability forced to the given value. All other fields are left
// untouched.
func (h Header) WithClickEvents(enabled bool) Header {
	h.ClickEvents = &enabled
	return h
}

// Encode serializes the header back to a single-line JSON object with
// no trailing newline. Optional fields that were absent on decode stay
// absent in the encoding.
func (h Header) Encode() ([]byte, error) {
	return json.Marshal(h)
}
