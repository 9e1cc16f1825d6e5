// internal/config/normalize.go
package config

import "github.com/antondlr/gicar-serial/internal/status"

const (
	DefaultBaud      = 115200
	DefaultTimeoutMs = 5000
	DefaultSettleMs  = 1000
	DefaultStatePath = "states/latest.txt"

	DefaultMirrorIntervalMs = 5000
	DefaultMirrorTimeoutMs  = 2000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// SERIAL DEFAULTS
	// ------------------------------------------------------------

	// an empty port means offline
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = DefaultBaud
	}
	if cfg.Serial.TimeoutMs == 0 {
		cfg.Serial.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.Serial.SettleMs == 0 {
		cfg.Serial.SettleMs = DefaultSettleMs
	}

	if cfg.State.Path == "" {
		cfg.State.Path = DefaultStatePath
	}

	// ------------------------------------------------------------
	// MIRROR (OPT-IN)
	// ------------------------------------------------------------

	m := cfg.Mirror
	if m == nil {
		return
	}

	if m.IntervalMs == 0 {
		m.IntervalMs = DefaultMirrorIntervalMs
	}
	if m.TimeoutMs == 0 {
		m.TimeoutMs = DefaultMirrorTimeoutMs
	}

	if m.StatusSlot == nil {
		return
	}

	if m.StatusUnitID == nil {
		id := m.UnitID
		m.StatusUnitID = &id
	}

	// ASCII already validated, truncate only.
	if len(m.DeviceName) > status.DeviceNameMaxChars {
		m.DeviceName = m.DeviceName[:status.DeviceNameMaxChars]
	}
}
