package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := Empty()

	if got := cfg.GetListenAddr(); got != DefaultListenAddr {
		t.Errorf("GetListenAddr() = %q, want %q", got, DefaultListenAddr)
	}
	if got := cfg.GetDatabasePath(); got != DefaultDatabasePath {
		t.Errorf("GetDatabasePath() = %q, want %q", got, DefaultDatabasePath)
	}
	if got := cfg.GetDefaultCellSize(); got != DefaultCellSize {
		t.Errorf("GetDefaultCellSize() = %g, want %g", got, DefaultCellSize)
	}
	if got := cfg.GetMaxGridCells(); got != DefaultMaxGridCells {
		t.Errorf("GetMaxGridCells() = %d, want %d", got, DefaultMaxGridCells)
	}
	if got := cfg.GetUnits(); got != DefaultUnits {
		t.Errorf("GetUnits() = %q, want %q", got, DefaultUnits)
	}
	if got := cfg.GetSerialBaud(); got != DefaultSerialBaud {
		t.Errorf("GetSerialBaud() = %d, want %d", got, DefaultSerialBaud)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, `{"listen_addr": ":9000", "default_cell_size": 0.05}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.GetListenAddr(); got != ":9000" {
		t.Errorf("GetListenAddr() = %q, want :9000", got)
	}
	if got := cfg.GetDefaultCellSize(); got != 0.05 {
		t.Errorf("GetDefaultCellSize() = %g, want 0.05", got)
	}
	// Untouched fields keep defaults.
	if got := cfg.GetDatabasePath(); got != DefaultDatabasePath {
		t.Errorf("GetDatabasePath() = %q, want default", got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative cell size", `{"default_cell_size": -0.1}`},
		{"zero cell size", `{"default_cell_size": 0}`},
		{"negative grid cap", `{"max_grid_cells": -1}`},
		{"zero baud", `{"serial_baud": 0}`},
		{"unknown units", `{"units": "furlongs"}`},
		{"malformed json", `{"listen_addr": }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load accepted a non-.json file, want error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load succeeded on a missing file, want error")
	}
}

func TestMaxGridCellsZeroDisablesCap(t *testing.T) {
	path := writeConfig(t, `{"max_grid_cells": 0}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.GetMaxGridCells(); got != 0 {
		t.Errorf("GetMaxGridCells() = %d, want 0", got)
	}
}
