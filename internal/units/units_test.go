package units

import (
	"math"
	"testing"
)

func TestConvertLength(t *testing.T) {
	tests := []struct {
		name     string
		metres   float64
		units    string
		expected float64
	}{
		{"2.5 m to cm", 2.5, CM, 250.0},
		{"2.5 m to mm", 2.5, MM, 2500.0},
		{"2.5 m to m", 2.5, M, 2.5},
		{"unknown units default to m", 2.5, "unknown", 2.5},
		{"zero length", 0.0, CM, 0.0},
		{"cell size 0.1 m to mm", 0.1, MM, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertLength(tt.metres, tt.units)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("ConvertLength(%f, %s) = %f, want %f", tt.metres, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"m is valid", M, true},
		{"cm is valid", CM, true},
		{"mm is valid", MM, true},
		{"empty string is invalid", "", false},
		{"km is invalid", "km", false},
		{"uppercase is invalid", "M", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.unit); got != tt.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tt.unit, got, tt.expected)
			}
		})
	}
}

func TestGetValidUnitsString(t *testing.T) {
	if got := GetValidUnitsString(); got != "m, cm, mm" {
		t.Errorf("GetValidUnitsString() = %q, want %q", got, "m, cm, mm")
	}
}
