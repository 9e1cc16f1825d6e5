package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EncodeHex renders b as two uppercase hex digits per byte.
func EncodeHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// DecodeHex parses two hex digits per byte. Lowercase digits are accepted.
func DecodeHex(s string) ([]byte, error) {
	out, err := hex.DecodeString(s)
	if err == nil {
		return out, nil
	}

	var ib hex.InvalidByteError
	switch {
	case errors.As(err, &ib):
		return nil, fmt.Errorf("%w: bad digit %q at position %d", ErrInvalidHex, byte(ib), strings.IndexByte(s, byte(ib)))
	case errors.Is(err, hex.ErrLength):
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidHex, len(s))
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
}

// parseHexField parses a fixed-width hex field such as an offset, a length
// or a checksum.
func parseHexField(s string) (int, bool) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
