// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antondlr/gicar-serial/internal/codec"
	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/memory"
)

// Source reads the board's full state once.
// session.Session satisfies it.
type Source interface {
	Read(ctx context.Context) (*memory.Image, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Device   string
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg Config
	src Source
}

// New creates a poller with immutable config.
func New(cfg Config, src Source) (*Poller, error) {
	if cfg.Device == "" {
		return nil, errors.New("poller: device name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if src == nil {
		return nil, errors.New("poller: source required")
	}
	return &Poller{cfg: cfg, src: src}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: a read that fails or carries a short image yields no image.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{
		Device: p.cfg.Device,
		At:     time.Now(),
	}

	img, err := p.src.Read(ctx)
	if err != nil {
		res.Err = err
		return res
	}

	// an image too short to hold the model byte is not a usable read
	model, ok := codec.Peek(img, int(fieldmap.MustLookup(fieldmap.Model).Offset), fieldmap.U8)
	if !ok {
		res.Err = fmt.Errorf("poller: short image (%d bytes)", img.Len())
		return res
	}

	// Commit only if the read succeeded
	res.Image = img
	res.Model = uint16(model)
	return res
}
