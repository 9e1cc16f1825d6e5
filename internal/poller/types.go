// internal/poller/types.go
package poller

import (
	"time"

	"github.com/antondlr/gicar-serial/internal/memory"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Device string
	At     time.Time

	// Image is the state read this cycle. Nil when Err is set.
	Image *memory.Image

	// Model is the raw model byte, 0 when unreadable.
	Model uint16

	Err error // non-nil means the poll cycle failed
}
