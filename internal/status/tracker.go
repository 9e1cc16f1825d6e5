// internal/status/tracker.go
package status

import (
	"errors"

	"github.com/antondlr/gicar-serial/internal/protocol"
	"github.com/antondlr/gicar-serial/internal/transport"
)

// Tracker owns the device-level truth between polls.
// It is not safe for concurrent use; the mirror loop owns it.
type Tracker struct {
	snap Snapshot
}

// NewTracker starts in the unknown state.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot { return t.snap }

// OnResult folds one poll outcome into the state. model is the raw model
// byte of a good read. changed reports whether the snapshot moved.
func (t *Tracker) OnResult(err error, model uint16) (changed bool) {
	prev := t.snap

	if err == nil {
		t.snap.Health = HealthOK
		t.snap.LastErrorCode = ErrorNone
		// reset on recovery
		t.snap.SecondsInError = 0
		t.snap.ModelCode = model
		t.snap.PollCount++
	} else {
		t.snap.Health = HealthError
		t.snap.LastErrorCode = ErrorCode(err)
		// seconds_in_error only moves on Tick
	}

	return t.snap != prev
}

// Tick advances seconds_in_error while not healthy, saturating at 65535.
func (t *Tracker) Tick() (changed bool) {
	if t.snap.Health == HealthOK || t.snap.SecondsInError == 0xFFFF {
		return false
	}
	t.snap.SecondsInError++
	return true
}

// ErrorCode maps an error to a status code without assuming more than the
// error chain exposes.
func ErrorCode(err error) uint16 {
	if err == nil {
		return ErrorNone
	}

	var cs *protocol.ChecksumMismatchError
	var fe *protocol.FrameError
	switch {
	case errors.Is(err, transport.ErrTimeout):
		return ErrorTimeout
	case errors.As(err, &cs):
		return ErrorChecksum
	case errors.As(err, &fe), errors.Is(err, protocol.ErrInvalidHex):
		return ErrorFrame
	case errors.Is(err, transport.ErrPort):
		return ErrorTransport
	}

	type coder interface{ Code() uint16 }
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return ErrorGeneric
}
