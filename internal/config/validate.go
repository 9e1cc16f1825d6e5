// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/antondlr/gicar-serial/internal/memory"
	"github.com/antondlr/gicar-serial/internal/status"
)

// ImageRegisters is the number of holding registers one mirrored image
// occupies (two bytes per register).
const ImageRegisters = (memory.DefaultSize + 1) / 2

// Validate checks configuration correctness.
// It performs declarative validation only; zero values mean "default".
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// SERIAL
	// ------------------------------------------------------------

	if cfg.Serial.Baud < 0 {
		return fmt.Errorf("serial: baud must be > 0, got %d", cfg.Serial.Baud)
	}
	if cfg.Serial.TimeoutMs < 0 {
		return fmt.Errorf("serial: timeout_ms must be >= 0, got %d", cfg.Serial.TimeoutMs)
	}
	if cfg.Serial.SettleMs < 0 {
		return fmt.Errorf("serial: settle_ms must be >= 0, got %d", cfg.Serial.SettleMs)
	}

	m := cfg.Mirror
	if m == nil {
		return nil
	}

	// ------------------------------------------------------------
	// MIRROR
	// ------------------------------------------------------------

	if m.Endpoint == "" {
		return fmt.Errorf("mirror: endpoint is required")
	}
	if m.IntervalMs < 0 {
		return fmt.Errorf("mirror: interval_ms must be >= 0, got %d", m.IntervalMs)
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("mirror: timeout_ms must be >= 0, got %d", m.TimeoutMs)
	}

	dataStart := uint32(m.Address)
	dataEnd := dataStart + ImageRegisters - 1
	if dataEnd > 0xFFFF {
		return fmt.Errorf("mirror: address %d leaves no room for %d image registers", m.Address, ImageRegisters)
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(m.DeviceName); i++ {
		if m.DeviceName[i] > 0x7F {
			return fmt.Errorf("mirror: device_name must contain ASCII characters only")
		}
	}

	// ------------------------------------------------------------
	// DEVICE STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if m.StatusSlot == nil {
		return nil
	}

	statusStart := uint32(*m.StatusSlot) * status.SlotsPerDevice
	statusEnd := statusStart + status.SlotsPerDevice - 1
	if statusEnd > 0xFFFF {
		return fmt.Errorf("mirror: status_slot %d is out of range", *m.StatusSlot)
	}

	statusUnit := m.UnitID
	if m.StatusUnitID != nil {
		statusUnit = *m.StatusUnitID
	}

	// overlap check (inclusive), only meaningful on the same unit id
	if statusUnit == m.UnitID && !(statusEnd < dataStart || statusStart > dataEnd) {
		return fmt.Errorf(
			"mirror: status block %d-%d overlaps image registers %d-%d on unit_id=%d",
			statusStart, statusEnd, dataStart, dataEnd, m.UnitID,
		)
	}

	return nil
}
