package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAlignment_RoundTrip tests that every valid token survives a
// decode/encode cycle exactly.
func TestAlignment_RoundTrip(t *testing.T) {
	tokens := []string{"right", "left", "center"}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			var align Alignment
			require.NoError(t, json.Unmarshal([]byte(`"`+token+`"`), &align))
			assert.Equal(t, Alignment(token), align)

			encoded, err := json.Marshal(align)
			require.NoError(t, err)
			assert.Equal(t, `"`+token+`"`, string(encoded))
		})
	}
}

// TestAlignment_RejectsUnknownTokens tests that invalid alignments fail
// with an error naming the token.
func TestAlignment_RejectsUnknownTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		named string
	}{
		{name: "UnknownWord", input: `"up"`, named: `"up"`},
		{name: "WrongCase", input: `"Right"`, named: `"Right"`},
		{name: "NotAString", input: `3`, named: `3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var align Alignment
			err := json.Unmarshal([]byte(tt.input), &align)

			require.Error(t, err)
			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Contains(t, err.Error(), tt.named)
			assert.Contains(t, err.Error(), "not a valid alignment")
		})
	}
}

// TestEncodeBlocks_DefaultBlock tests the synthetic-message encoding:
// every optional field is written explicitly as null.
func TestEncodeBlocks_DefaultBlock(t *testing.T) {
	encoded, err := EncodeBlocks([]Block{{FullText: "no data"}})
	require.NoError(t, err)

	expected := `[{"full_text":"no data","short_text":null,"color":null,` +
		`"min_width":null,"align":null,"urgent":null,"name":null,` +
		`"instance":null,"separator":null,"separator_block_width":null}]`
	assert.Equal(t, expected, string(encoded))
}

// TestDecodeBlocks_HandlesSeparators tests status-line decoding with
// and without the leading array separator.
func TestDecodeBlocks_HandlesSeparators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "FirstElement_NoSeparator",
			input:    `[{"full_text":"100%"}]`,
			expected: []string{"100%"},
		},
		{
			name:     "SteadyStateElement_LeadingComma",
			input:    `,[{"full_text":"cpu 3%"},{"full_text":"12:00"}]`,
			expected: []string{"cpu 3%", "12:00"},
		},
		{
			name:     "TrailingNewline",
			input:    `,[{"full_text":"ok"}]` + "\n",
			expected: []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := DecodeBlocks([]byte(tt.input))
			require.NoError(t, err)

			require.Len(t, blocks, len(tt.expected))
			for i, text := range tt.expected {
				assert.Equal(t, text, blocks[i].FullText)
			}
		})
	}
}

// TestDecodeBlocks_PropagatesFieldErrors tests that a bad nested value
// surfaces the descriptive field error, not a generic one.
func TestDecodeBlocks_PropagatesFieldErrors(t *testing.T) {
	_, err := DecodeBlocks([]byte(`[{"full_text":"x","align":"sideways"}]`))

	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, err.Error(), `"sideways"`)
}

// TestDecodeBlocks_RejectsMalformedJSON tests malformed record handling.
func TestDecodeBlocks_RejectsMalformedJSON(t *testing.T) {
	_, err := DecodeBlocks([]byte(`,[{"full_text":`))

	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

// TestBlock_DecodeFullShape tests decoding a block with every field set.
func TestBlock_DecodeFullShape(t *testing.T) {
	input := `[{"full_text":"85%","short_text":"85","color":"#00ff00",` +
		`"min_width":40,"align":"right","urgent":false,"name":"battery",` +
		`"instance":"bat0","separator":true,"separator_block_width":9}]`

	blocks, err := DecodeBlocks([]byte(input))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	block := blocks[0]
	assert.Equal(t, "85%", block.FullText)
	assert.Equal(t, "85", *block.ShortText)
	assert.Equal(t, "#00ff00", *block.Color)
	assert.Equal(t, 40, *block.MinWidth)
	assert.Equal(t, AlignRight, *block.Align)
	assert.False(t, *block.Urgent)
	assert.Equal(t, "battery", *block.Name)
	assert.Equal(t, "bat0", *block.Instance)
	assert.True(t, *block.Separator)
	assert.Equal(t, 9, *block.SeparatorBlockWidth)
}
