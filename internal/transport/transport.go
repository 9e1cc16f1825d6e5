// Package transport moves request and response frames over the board's
// serial link.
package transport

import (
	"context"
	"errors"
)

var (
	// ErrTimeout is returned when the device sends nothing before the
	// deadline.
	ErrTimeout = errors.New("transport: no response before deadline")

	// ErrPort is returned when the serial port cannot be opened or used.
	ErrPort = errors.New("transport: serial port unavailable")

	// ErrIncomplete is returned when a read response started but did not
	// finish before the deadline.
	ErrIncomplete = errors.New("transport: incomplete response")
)

// Transport sends one request and returns the raw reply.
type Transport interface {
	Exchange(ctx context.Context, request []byte) ([]byte, error)
}
