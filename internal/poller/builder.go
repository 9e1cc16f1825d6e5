// internal/poller/builder.go
package poller

import (
	cfg "github.com/antondlr/gicar-serial/internal/config"
)

// Build constructs a Poller for the mirror section of a normalized config.
// The source owns the serial link; the poller never opens it itself.
func Build(device string, m cfg.MirrorConfig, src Source) (*Poller, error) {
	return New(
		Config{
			Device:   device,
			Interval: m.Interval(),
		},
		src,
	)
}
