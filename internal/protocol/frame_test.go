package protocol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReadRequest(t *testing.T) {
	assert.Equal(t, "r000500D712", BuildReadRequest())
}

func TestParseResponseDefault(t *testing.T) {
	payload, header, err := ParseResponse(DefaultResponse)
	require.NoError(t, err)
	assert.Equal(t, "r000500D7", header)
	assert.Len(t, payload, 0xD7)
}

func TestParseResponseRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x01, 0x02, 0x03},
		{0xFF, 0x00, 0x7F, 0x80, 0x10},
	}

	for _, want := range payloads {
		body := "r00000000" + EncodeHex(want)
		cs := Checksum(body)

		got, header, err := ParseResponse(body + fmt.Sprintf("%02X", cs))
		require.NoError(t, err)
		assert.Equal(t, "r00000000", header)
		assert.Equal(t, want, got)

		_, _, err = ParseResponse(body + fmt.Sprintf("%02X", cs^1))
		var mismatch *ChecksumMismatchError
		require.True(t, errors.As(err, &mismatch), "expected ChecksumMismatchError, got %v", err)
		assert.Equal(t, cs^1, mismatch.Expected)
		assert.Equal(t, cs, mismatch.Actual)
	}
}

func TestParseResponseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{name: "empty", frame: ""},
		{name: "wrong marker", frame: "w000500D712"},
		{name: "too short", frame: "r000500D7"},
		{name: "checksum not hex", frame: "r000500D7ZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseResponse(tt.frame)
			var fe *FrameError
			assert.True(t, errors.As(err, &fe), "expected FrameError, got %v", err)
			assert.True(t, IsFrameError(err))
		})
	}
}

func TestParseResponseBadPayloadHex(t *testing.T) {
	body := "r00000001" + "0G"
	frame := body + fmt.Sprintf("%02X", Checksum(body))

	_, _, err := ParseResponse(frame)
	assert.ErrorIs(t, err, ErrInvalidHex)
}

func TestParseResponseOddPayload(t *testing.T) {
	body := "r00000001" + "012"
	frame := body + fmt.Sprintf("%02X", Checksum(body))

	_, _, err := ParseResponse(frame)
	assert.ErrorIs(t, err, ErrInvalidHex)
}

func TestParseHeader(t *testing.T) {
	start, length, ok := ParseHeader("r000500D7")
	require.True(t, ok)
	assert.Equal(t, 5, start)
	assert.Equal(t, 0xD7, length)

	_, _, ok = ParseHeader("rXYZ500D7")
	assert.False(t, ok)

	_, _, ok = ParseHeader("r0005")
	assert.False(t, ok)
}

func TestResponseLength(t *testing.T) {
	n, ok := ResponseLength([]byte(DefaultResponse))
	require.True(t, ok)
	assert.Equal(t, len(DefaultResponse), n)

	_, ok = ResponseLength([]byte("r0005"))
	assert.False(t, ok)

	_, ok = ResponseLength([]byte("a000500D7"))
	assert.False(t, ok)
}

func TestRenderResponse(t *testing.T) {
	frame := RenderResponse(0, []byte{0x01, 0x02, 0x03})
	assert.Equal(t, "r00000003010203"+"1B", frame)

	payload, header, err := ParseResponse(frame)
	require.NoError(t, err)
	assert.Equal(t, "r00000003", header)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, payload)
}

func TestBuildWriteCommand(t *testing.T) {
	data := make([]byte, 200)
	data[0x35] = 0xA2
	data[0x36] = 0x03

	cmd := BuildWriteCommand(data, 0x35, 2)
	assert.Equal(t, "w00350002A203D7", cmd.String())
	assert.Equal(t, uint16(0x35), cmd.Start)
	assert.Equal(t, uint16(2), cmd.Length)
	assert.Equal(t, []byte{0xA2, 0x03}, cmd.Data())
	assert.Equal(t, byte(0xD7), cmd.Checksum())
}

func TestBuildWriteCommandClamps(t *testing.T) {
	data := make([]byte, 13)
	data[10] = 0x01
	data[12] = 0xFF

	cmd := BuildWriteCommand(data, 10, 50)
	assert.Equal(t, uint16(3), cmd.Length)
	assert.Equal(t, "w000A00030100FF"+"58", cmd.String())

	cmd = BuildWriteCommand(data, 20, 4)
	assert.Equal(t, uint16(0), cmd.Length)
	assert.Empty(t, cmd.Data())
}

func TestBuildWriteCommandCopiesData(t *testing.T) {
	data := []byte{1, 2, 3}
	cmd := BuildWriteCommand(data, 0, 3)
	data[0] = 9

	assert.Equal(t, []byte{1, 2, 3}, cmd.Data())
}

func TestParseWriteCommand(t *testing.T) {
	cmd, err := ParseWriteCommand("w007E00050064646464" + "20")
	require.NoError(t, err)
	assert.Equal(t, uint16(126), cmd.Start)
	assert.Equal(t, uint16(5), cmd.Length)
	assert.Equal(t, []byte{0x00, 0x64, 0x64, 0x64, 0x64}, cmd.Data())

	_, err = ParseWriteCommand("w007E00050064646464" + "21")
	var mismatch *ChecksumMismatchError
	assert.True(t, errors.As(err, &mismatch))

	_, err = ParseWriteCommand("w007E0006006464646420")
	assert.True(t, IsFrameError(err))

	_, err = ParseWriteCommand("r0084000106" + "6A")
	assert.True(t, IsFrameError(err))
}
