package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHex(t *testing.T) {
	assert.Equal(t, "", EncodeHex(nil))
	assert.Equal(t, "00FF0A", EncodeHex([]byte{0x00, 0xFF, 0x0A}))
}

func TestHexRoundTrip(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	inputs := [][]byte{{}, {0x00}, {0xDE, 0xAD, 0xBE, 0xEF}, all}
	for _, in := range inputs {
		out, err := DecodeHex(EncodeHex(in))
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestDecodeHexLowercase(t *testing.T) {
	out, err := DecodeHex("a2ff")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA2, 0xFF}, out)
}

func TestDecodeHexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "odd length", input: "ABC"},
		{name: "bad first digit", input: "G0"},
		{name: "bad second digit", input: "0Z"},
		{name: "whitespace", input: "0 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHex(tt.input)
			assert.ErrorIs(t, err, ErrInvalidHex)
		})
	}
}

func TestDecodeHexReportsPosition(t *testing.T) {
	_, err := DecodeHex("A2FG")
	require.ErrorIs(t, err, ErrInvalidHex)
	assert.Contains(t, err.Error(), "position 3")
}

func TestParseHexField(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{in: "00D7", want: 0xD7, ok: true},
		{in: "ffff", want: 0xFFFF, ok: true},
		{in: "E7", want: 0xE7, ok: true},
		{in: "", ok: false},
		{in: "0x10", ok: false},
		{in: "+001", ok: false},
		{in: "12G4", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseHexField(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
