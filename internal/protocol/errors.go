package protocol

import (
	"errors"
	"fmt"
)

// ErrInvalidHex is returned when hex-encoded ASCII has an odd length or
// contains a non-hex digit.
var ErrInvalidHex = errors.New("invalid hex")

// FrameError reports a frame whose envelope is malformed: wrong leading
// marker, too short, or an unparseable header or checksum field.
type FrameError struct {
	Reason string
}

func (e *FrameError) Error() string {
	return "malformed frame: " + e.Reason
}

// ChecksumMismatchError reports a frame whose trailing checksum does not
// match the checksum computed over the rest of the frame.
type ChecksumMismatchError struct {
	// Expected is the checksum carried by the frame.
	Expected byte

	// Actual is the checksum computed locally.
	Actual byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%02X, got 0x%02X", e.Expected, e.Actual)
}

// IsFrameError returns true if err is, or wraps, a FrameError or a
// ChecksumMismatchError.
func IsFrameError(err error) bool {
	var fe *FrameError
	var ce *ChecksumMismatchError
	return errors.As(err, &fe) || errors.As(err, &ce)
}
