// Package memory holds the mutable in-memory image of the board's state.
//
// An Image pairs the raw payload of a read response with the offset
// adjustment taken from that response's header. The adjustment is the start
// address of the payload: catalog address A lives at payload index
// A - OffsetAdjustment when reading. Write commands address the device with
// absolute catalog addresses, and the encoder places written bytes at those
// absolute indexes of the buffer. The two paths are intentionally asymmetric;
// do not "fix" one to match the other.
//
// An Image has a single owner. Clone it before handing it to anyone else.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/protocol"
)

const (
	// DefaultSize is the size of an image created without prior state.
	DefaultSize = 300

	// DefaultOffsetAdjustment applies when no usable header is available.
	DefaultOffsetAdjustment = 5
)

// ErrInvalidWidth is returned for raw accesses with an unsupported width.
var ErrInvalidWidth = errors.New("invalid width")

// OutOfBoundsError reports an access that does not fit inside the image.
type OutOfBoundsError struct {
	Offset int
	Width  int
	Len    int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("offset %d (width %d) is out of bounds for image of %d bytes", e.Offset, e.Width, e.Len)
}

// Image is a device snapshot.
type Image struct {
	buf        []byte
	adjustment int
	header     string
}

// New returns a zero-filled image of size bytes with the default offset
// adjustment.
func New(size int) *Image {
	if size < 0 {
		size = 0
	}
	return &Image{buf: make([]byte, size), adjustment: DefaultOffsetAdjustment}
}

// FromPayload wraps a payload received with header. The payload is copied.
func FromPayload(payload []byte, header string) *Image {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return &Image{buf: buf, adjustment: OffsetAdjustment(header), header: header}
}

// Parse builds an image from a full framed read response.
func Parse(frame string) (*Image, error) {
	payload, header, err := protocol.ParseResponse(strings.TrimSpace(frame))
	if err != nil {
		return nil, err
	}
	return FromPayload(payload, header), nil
}

// Default returns the image of the built-in fallback response.
func Default() *Image {
	img, err := Parse(protocol.DefaultResponse)
	if err != nil {
		panic("memory: built-in default response does not parse: " + err.Error())
	}
	return img
}

// OffsetAdjustment derives the read-side adjustment from a response header:
// the 4-hex-digit field at header[1:5]. Anything unusable yields
// DefaultOffsetAdjustment.
func OffsetAdjustment(header string) int {
	if len(header) < protocol.HeaderSize || header[0] != protocol.ReadMarker {
		return DefaultOffsetAdjustment
	}
	start, _, ok := protocol.ParseHeader(header)
	if !ok {
		return DefaultOffsetAdjustment
	}
	return start
}

// Len returns the buffer length.
func (m *Image) Len() int { return len(m.buf) }

// OffsetAdjustment returns the read-side adjustment.
func (m *Image) OffsetAdjustment() int { return m.adjustment }

// Header returns the header the image was received with, if any.
func (m *Image) Header() string { return m.header }

// Bytes returns a copy of the buffer.
func (m *Image) Bytes() []byte {
	out := make([]byte, len(m.buf))
	copy(out, m.buf)
	return out
}

// Clone returns an independent copy.
func (m *Image) Clone() *Image {
	return &Image{buf: m.Bytes(), adjustment: m.adjustment, header: m.header}
}

// Uint reads width bytes little-endian at buffer index offset.
// ok is false when the range does not fit.
func (m *Image) Uint(offset int, width fieldmap.Width) (v uint64, ok bool) {
	if !width.Valid() || offset < 0 || offset+int(width) > len(m.buf) {
		return 0, false
	}
	b := m.buf[offset : offset+int(width)]
	switch width {
	case fieldmap.U8:
		return uint64(b[0]), true
	case fieldmap.U16LE:
		return uint64(binary.LittleEndian.Uint16(b)), true
	default:
		return uint64(binary.LittleEndian.Uint32(b)), true
	}
}

// PutUint writes v little-endian at buffer index offset, keeping only the
// low width bytes.
func (m *Image) PutUint(offset int, width fieldmap.Width, v uint64) error {
	if !width.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	if offset < 0 || offset+int(width) > len(m.buf) {
		return &OutOfBoundsError{Offset: offset, Width: int(width), Len: len(m.buf)}
	}
	b := m.buf[offset : offset+int(width)]
	switch width {
	case fieldmap.U8:
		b[0] = byte(v)
	case fieldmap.U16LE:
		binary.LittleEndian.PutUint16(b, uint16(v))
	default:
		binary.LittleEndian.PutUint32(b, uint32(v))
	}
	return nil
}

// WriteCommand frames buffer[start:start+length] as a write command,
// clamping length to the buffer.
func (m *Image) WriteCommand(start uint16, length int) protocol.WriteCommand {
	return protocol.BuildWriteCommand(m.buf, start, length)
}

// Frame renders the image as a read response starting at its offset
// adjustment.
func (m *Image) Frame() string {
	start := m.adjustment
	if start < 0 || start > protocol.MaxFieldValue {
		start = DefaultOffsetAdjustment
	}
	return protocol.RenderResponse(uint16(start), m.buf)
}
