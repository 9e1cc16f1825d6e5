package protocol

import (
	"fmt"
)

// ParseResponse validates a read response frame and extracts its payload.
//
// The header (first HeaderSize characters) is returned verbatim. The payload
// is everything between the header and the trailing checksum, hex-decoded.
// A checksum mismatch rejects the whole frame.
func ParseResponse(frame string) (payload []byte, header string, err error) {
	if len(frame) == 0 || frame[0] != ReadMarker {
		return nil, "", &FrameError{Reason: "response must start with 'r'"}
	}
	if len(frame) < MinResponseSize {
		return nil, "", &FrameError{
			Reason: fmt.Sprintf("response too short: got %d characters, minimum is %d", len(frame), MinResponseSize),
		}
	}

	body := frame[:len(frame)-ChecksumSize]
	expected, ok := parseHexField(frame[len(frame)-ChecksumSize:])
	if !ok {
		return nil, "", &FrameError{Reason: fmt.Sprintf("checksum field %q is not hex", frame[len(frame)-ChecksumSize:])}
	}

	actual := Checksum(body)
	if byte(expected) != actual {
		return nil, "", &ChecksumMismatchError{Expected: byte(expected), Actual: actual}
	}

	payload, err = DecodeHex(body[HeaderSize:])
	if err != nil {
		return nil, "", fmt.Errorf("response payload: %w", err)
	}

	return payload, frame[:HeaderSize], nil
}

// ParseHeader extracts the start address and length fields of a frame
// header. ok is false when the header is too short or a field is not hex.
func ParseHeader(header string) (start, length int, ok bool) {
	if len(header) < HeaderSize {
		return 0, 0, false
	}
	start, ok = parseHexField(header[1:5])
	if !ok {
		return 0, 0, false
	}
	length, ok = parseHexField(header[5:9])
	if !ok {
		return 0, 0, false
	}
	return start, length, true
}

// ResponseLength reports the total number of characters of the read
// response whose beginning is buf. It needs the full header to answer;
// ok is false before that or when buf does not look like a read response.
func ResponseLength(buf []byte) (int, bool) {
	if len(buf) < HeaderSize || buf[0] != ReadMarker {
		return 0, false
	}
	_, length, ok := ParseHeader(string(buf[:HeaderSize]))
	if !ok {
		return 0, false
	}
	return HeaderSize + 2*length + ChecksumSize, true
}

// BuildReadRequest returns the read request for the board's state region.
func BuildReadRequest() string {
	return appendChecksum(ReadRequestBase)
}

// RenderResponse renders data as a complete read response starting at
// start. Snapshots are persisted in this form.
func RenderResponse(start uint16, data []byte) string {
	return appendChecksum(fmt.Sprintf("%c%04X%04X%s", ReadMarker, start, len(data), EncodeHex(data)))
}

// WriteCommand is a framed write of a contiguous byte range.
// It is immutable once built.
type WriteCommand struct {
	// Start is the absolute device address of the first byte.
	Start uint16

	// Length is the number of bytes written.
	Length uint16

	data     []byte
	checksum byte
}

// BuildWriteCommand frames data[start:start+length] as a write command.
// The length is clamped so the range never runs past the end of data.
func BuildWriteCommand(data []byte, start uint16, length int) WriteCommand {
	n := length
	if avail := len(data) - int(start); n > avail {
		n = avail
	}
	if n < 0 {
		n = 0
	}

	cmd := WriteCommand{Start: start, Length: uint16(n), data: make([]byte, n)}
	if n > 0 {
		copy(cmd.data, data[int(start):int(start)+n])
	}
	cmd.checksum = Checksum(cmd.body())
	return cmd
}

// ParseWriteCommand parses and verifies a rendered write command.
func ParseWriteCommand(s string) (WriteCommand, error) {
	if len(s) == 0 || s[0] != WriteMarker {
		return WriteCommand{}, &FrameError{Reason: "write command must start with 'w'"}
	}
	if len(s) < MinResponseSize {
		return WriteCommand{}, &FrameError{
			Reason: fmt.Sprintf("write command too short: got %d characters, minimum is %d", len(s), MinResponseSize),
		}
	}

	start, length, ok := ParseHeader(s[:HeaderSize])
	if !ok {
		return WriteCommand{}, &FrameError{Reason: fmt.Sprintf("header %q is not hex", s[:HeaderSize])}
	}

	body := s[:len(s)-ChecksumSize]
	expected, ok := parseHexField(s[len(s)-ChecksumSize:])
	if !ok {
		return WriteCommand{}, &FrameError{Reason: fmt.Sprintf("checksum field %q is not hex", s[len(s)-ChecksumSize:])}
	}
	if actual := Checksum(body); byte(expected) != actual {
		return WriteCommand{}, &ChecksumMismatchError{Expected: byte(expected), Actual: actual}
	}

	data, err := DecodeHex(body[HeaderSize:])
	if err != nil {
		return WriteCommand{}, fmt.Errorf("write command data: %w", err)
	}
	if len(data) != length {
		return WriteCommand{}, &FrameError{
			Reason: fmt.Sprintf("length field says %d bytes, data has %d", length, len(data)),
		}
	}

	return WriteCommand{
		Start:    uint16(start),
		Length:   uint16(length),
		data:     data,
		checksum: byte(expected),
	}, nil
}

// Data returns a copy of the bytes carried by the command.
func (c WriteCommand) Data() []byte {
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out
}

// Checksum returns the frame checksum.
func (c WriteCommand) Checksum() byte {
	return c.checksum
}

// String renders the command exactly as it is sent on the wire.
func (c WriteCommand) String() string {
	return c.body() + fmt.Sprintf("%02X", c.checksum)
}

func (c WriteCommand) body() string {
	return fmt.Sprintf("%c%04X%04X%s", WriteMarker, c.Start, c.Length, EncodeHex(c.data))
}
