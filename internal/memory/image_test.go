package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/protocol"
)

func TestOffsetAdjustment(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "device header", header: "r000500D7", want: 5},
		{name: "zero start", header: "r00000010", want: 0},
		{name: "non-hex offset", header: "rXY0500D7", want: DefaultOffsetAdjustment},
		{name: "empty", header: "", want: DefaultOffsetAdjustment},
		{name: "short", header: "r0005", want: DefaultOffsetAdjustment},
		{name: "write marker", header: "w001000D7", want: DefaultOffsetAdjustment},
		{name: "lowercase hex", header: "r000a00d7", want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OffsetAdjustment(tt.header))
		})
	}
}

func TestNew(t *testing.T) {
	img := New(DefaultSize)
	assert.Equal(t, 300, img.Len())
	assert.Equal(t, DefaultOffsetAdjustment, img.OffsetAdjustment())
	assert.Equal(t, make([]byte, 300), img.Bytes())
}

func TestParse(t *testing.T) {
	img, err := Parse(protocol.DefaultResponse + "\n")
	require.NoError(t, err)
	assert.Equal(t, 0xD7, img.Len())
	assert.Equal(t, 5, img.OffsetAdjustment())
	assert.Equal(t, "r000500D7", img.Header())

	_, err = Parse("r000500D700")
	assert.True(t, protocol.IsFrameError(err))
}

func TestDefault(t *testing.T) {
	img := Default()
	// model byte: catalog 76, adjusted 71
	v, ok := img.Uint(76-img.OffsetAdjustment(), fieldmap.U8)
	require.True(t, ok)
	assert.Equal(t, uint64(2), v)
}

func TestUintAndPutUint(t *testing.T) {
	img := New(8)

	require.NoError(t, img.PutUint(0, fieldmap.U16LE, 0x03A2))
	assert.Equal(t, []byte{0xA2, 0x03, 0, 0, 0, 0, 0, 0}, img.Bytes())

	v, ok := img.Uint(0, fieldmap.U16LE)
	require.True(t, ok)
	assert.Equal(t, uint64(930), v)

	require.NoError(t, img.PutUint(4, fieldmap.U32LE, 0x1122334455))
	v, ok = img.Uint(4, fieldmap.U32LE)
	require.True(t, ok)
	assert.Equal(t, uint64(0x22334455), v)

	_, ok = img.Uint(7, fieldmap.U16LE)
	assert.False(t, ok)
	_, ok = img.Uint(-1, fieldmap.U8)
	assert.False(t, ok)

	err := img.PutUint(7, fieldmap.U16LE, 1)
	var oob *OutOfBoundsError
	assert.True(t, errors.As(err, &oob))

	assert.ErrorIs(t, img.PutUint(0, fieldmap.Width(3), 1), ErrInvalidWidth)
}

func TestCloneIsIndependent(t *testing.T) {
	img := New(4)
	c := img.Clone()
	require.NoError(t, c.PutUint(0, fieldmap.U8, 9))

	v, _ := img.Uint(0, fieldmap.U8)
	assert.Equal(t, uint64(0), v)
}

func TestFrameRoundTrip(t *testing.T) {
	img := Default()
	assert.Equal(t, protocol.DefaultResponse, img.Frame())

	again, err := Parse(img.Frame())
	require.NoError(t, err)
	assert.Equal(t, img.Bytes(), again.Bytes())
	assert.Equal(t, img.OffsetAdjustment(), again.OffsetAdjustment())
}

func TestWriteCommandClamps(t *testing.T) {
	img := New(10)
	cmd := img.WriteCommand(8, 5)
	assert.Equal(t, uint16(2), cmd.Length)
}
