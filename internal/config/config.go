// Package config loads service configuration from a JSON file. Fields are
// pointers so a partial config file overrides only what it names; the Get
// methods fall back to defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zingzy/wallbot/internal/units"
)

// Defaults applied when a field is absent from the config file.
const (
	DefaultListenAddr   = ":8080"
	DefaultDatabasePath = "trajectories.db"
	DefaultCellSize     = 0.1
	DefaultMaxGridCells = 4_000_000
	DefaultUnits        = units.M
	DefaultSerialPort   = "/dev/ttyUSB0"
	DefaultSerialBaud   = 115200
)

// Config is the root service configuration.
type Config struct {
	ListenAddr      *string  `json:"listen_addr,omitempty"`
	DatabasePath    *string  `json:"database_path,omitempty"`
	DefaultCellSize *float64 `json:"default_cell_size,omitempty"`

	// MaxGridCells caps rows*cols for a single planning request.
	// 0 disables the cap. The planner itself never imposes a limit; the
	// request layer enforces this before any grid is allocated.
	MaxGridCells *int `json:"max_grid_cells,omitempty"`

	Units      *string `json:"units,omitempty"`
	SerialPort *string `json:"serial_port,omitempty"`
	SerialBaud *int    `json:"serial_baud,omitempty"`
}

// Empty returns a Config with all fields unset, which resolves to pure
// defaults through the Get methods.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. The file must have a .json
// extension and be under 1MB. Fields omitted from the file keep their
// defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects values that would misbehave at runtime rather than
// failing loudly here.
func (c *Config) Validate() error {
	if c.DefaultCellSize != nil && *c.DefaultCellSize <= 0 {
		return fmt.Errorf("default_cell_size must be positive, got %g", *c.DefaultCellSize)
	}
	if c.MaxGridCells != nil && *c.MaxGridCells < 0 {
		return fmt.Errorf("max_grid_cells must be >= 0, got %d", *c.MaxGridCells)
	}
	if c.SerialBaud != nil && *c.SerialBaud <= 0 {
		return fmt.Errorf("serial_baud must be positive, got %d", *c.SerialBaud)
	}
	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("units must be one of %s; got %q", units.GetValidUnitsString(), *c.Units)
	}
	return nil
}

func (c *Config) GetListenAddr() string {
	if c.ListenAddr != nil {
		return *c.ListenAddr
	}
	return DefaultListenAddr
}

func (c *Config) GetDatabasePath() string {
	if c.DatabasePath != nil {
		return *c.DatabasePath
	}
	return DefaultDatabasePath
}

func (c *Config) GetDefaultCellSize() float64 {
	if c.DefaultCellSize != nil {
		return *c.DefaultCellSize
	}
	return DefaultCellSize
}

func (c *Config) GetMaxGridCells() int {
	if c.MaxGridCells != nil {
		return *c.MaxGridCells
	}
	return DefaultMaxGridCells
}

func (c *Config) GetUnits() string {
	if c.Units != nil {
		return *c.Units
	}
	return DefaultUnits
}

func (c *Config) GetSerialPort() string {
	if c.SerialPort != nil {
		return *c.SerialPort
	}
	return DefaultSerialPort
}

func (c *Config) GetSerialBaud() int {
	if c.SerialBaud != nil {
		return *c.SerialBaud
	}
	return DefaultSerialBaud
}
