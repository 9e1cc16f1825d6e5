// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Serial SerialConfig  `yaml:"serial"`
	State  StateConfig   `yaml:"state"`
	Mirror *MirrorConfig `yaml:"mirror"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Delay between opening the port and sending, the board resets on open.
	SettleMs int `yaml:"settle_ms"`
}

func (s SerialConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

func (s SerialConfig) Settle() time.Duration {
	return time.Duration(s.SettleMs) * time.Millisecond
}

// ---- STATE ----

type StateConfig struct {
	Path string `yaml:"path"`
}

// ---- MIRROR ----

type MirrorConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Address    uint16 `yaml:"address"` // first holding register of the image
	IntervalMs int    `yaml:"interval_ms"`
	TimeoutMs  int    `yaml:"timeout_ms"`

	// Device status block (optional, opt-in)
	StatusSlot   *uint16 `yaml:"status_slot"`
	StatusUnitID *uint8  `yaml:"status_unit_id"` // defaults to unit_id
	DeviceName   string  `yaml:"device_name"`
}

func (m MirrorConfig) Interval() time.Duration {
	return time.Duration(m.IntervalMs) * time.Millisecond
}

func (m MirrorConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutMs) * time.Millisecond
}

// Load reads a YAML config file. The result is neither validated nor
// normalized.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional is Load, except that a missing file yields an empty config.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}
