package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeUTF8(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "ascii",
			input:    []byte("plain ascii"),
			expected: "plain ascii",
		},
		{
			name:     "two byte sequence",
			input:    []byte{0xC3, 0xA9}, // é
			expected: "é",
		},
		{
			name:     "three byte sequence euro sign",
			input:    []byte{226, 130, 172},
			expected: "€",
		},
		{
			name:     "four byte sequence",
			input:    []byte{0xF0, 0x9F, 0x98, 0x80},
			expected: "\U0001F600",
		},
		{
			name: "legacy five byte overlong euro",
			// Same code point as the three byte form, padded to five bytes.
			input:    []byte{0xF8, 0x80, 0x82, 0x82, 0xAC},
			expected: "€",
		},
		{
			name:     "legacy six byte overlong euro",
			input:    []byte{0xFC, 0x80, 0x80, 0x82, 0x82, 0xAC},
			expected: "€",
		},
		{
			name:     "mixed ascii and multi byte",
			input:    []byte{'1', 0xE2, 0x82, 0xAC, '2'},
			expected: "1€2",
		},
		{
			name:     "truncated sequence degrades to single bytes",
			input:    []byte{0xE2, 0x82},
			expected: "â\u0082",
		},
		{
			name:     "stray continuation byte kept as-is",
			input:    []byte{0x80, 'a'},
			expected: "\u0080a",
		},
		{
			name:     "truncated lead at end of input",
			input:    []byte{'a', 0xC3},
			expected: "aÃ",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, DecodeUTF8(testCase.input))
		})
	}
}

func TestDecodeUTF8MatchesStandardEncoder(t *testing.T) {
	// Anything Go serializes as UTF-8 must come back unchanged.
	inputs := []string{
		"hello",
		"café",
		"€ 42,00",
		"\U0001F680 launch",
		`{"name":"Jürgen"}`,
	}

	for _, input := range inputs {
		assert.Equal(t, input, DecodeUTF8([]byte(input)))
	}
}
