package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Alignment is the text alignment of a status block. The wire format
// codes it as one of three lowercase string tokens.
type Alignment string

const (
	AlignRight  Alignment = "right"
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// UnmarshalJSON validates the alignment token, rejecting anything
// outside the three known variants with an error naming the token.
func (a *Alignment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &DecodeError{
			Value:  string(bytes.TrimSpace(data)),
			Reason: "is not a valid alignment",
		}
	}

	switch Alignment(s) {
	case AlignRight, AlignLeft, AlignCenter:
		*a = Alignment(s)
		return nil
	}
	return &DecodeError{Value: s, Reason: "is not a valid alignment"}
}

// Block is a single element of a status line. Only full_text is
// required. Optional fields are pointers and serialize as JSON null
// when absent: the relay never emits blocks on the pass-through path,
// and its synthetic messages reproduce the generator's convention of
// writing every field explicitly.
type Block struct {
	FullText            string     `json:"full_text"`
	ShortText           *string    `json:"short_text"`
	Color               *string    `json:"color"`
	MinWidth            *int       `json:"min_width"`
	Align               *Alignment `json:"align"`
	Urgent              *bool      `json:"urgent"`
	Name                *string    `json:"name"`
	Instance            *string    `json:"instance"`
	Separator           *bool      `json:"separator"`
	SeparatorBlockWidth *int       `json:"separator_block_width"`
}

// EncodeBlocks serializes a status line as a single-line JSON array of
// blocks with no trailing newline.
func EncodeBlocks(blocks []Block) ([]byte, error) {
	return json.Marshal(blocks)
}

// DecodeBlocks parses one status-line record into its blocks. Records
// after the first element carry a leading comma separator per the
// append-only array framing; it is stripped before decoding.
func DecodeBlocks(line []byte) ([]Block, error) {
	trimmed := bytes.TrimSpace(line)
	trimmed = bytes.TrimPrefix(trimmed, []byte(","))

	var blocks []Block
	if err := json.Unmarshal(trimmed, &blocks); err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			return nil, decodeErr
		}
		return nil, &DecodeError{
			Value:  string(trimmed),
			Reason: "is not a valid status line: " + err.Error(),
		}
	}
	return blocks, nil
}
