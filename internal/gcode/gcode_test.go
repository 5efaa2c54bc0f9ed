package gcode

import (
	"errors"
	"math"
	"testing"

	"github.com/iley/gpost/internal/errs"
)

func TestLineCode(t *testing.T) {
	tests := []struct {
		name     string
		line     Line
		expected string
	}{
		{
			name:     "bare op",
			line:     Op("M05"),
			expected: "M05",
		},
		{
			name:     "op with words",
			line:     Op("G00", Raw("X", "1.0000"), Raw("Y", "-2.5000")),
			expected: "G00 X1.0000 Y-2.5000",
		},
		{
			name:     "integer word",
			line:     Op("G4", Int("P", 2500)),
			expected: "G4 P2500",
		},
		{
			name:     "comment only",
			line:     Comment("Berta"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.Code(); got != tt.expected {
				t.Errorf("Code() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEmitterPrecision(t *testing.T) {
	e := NewEmitter(4, 2)
	e.Op("G01", e.Coord("Z", -0.05))
	e.Op("G01", e.Feed("F", 120))

	lines := e.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if got := lines[0].Code(); got != "G01 Z-0.0500" {
		t.Errorf("coordinate line = %q", got)
	}
	if got := lines[1].Code(); got != "G01 F120.00" {
		t.Errorf("feedrate line = %q", got)
	}
}

func TestEmitterStickyError(t *testing.T) {
	e := NewEmitter(4, 2)
	e.Op("G00")
	e.Op("G00", e.Coord("X", math.NaN()))
	e.Op("G01", e.Coord("X", 1))

	var fe *errs.FormattingError
	if !errors.As(e.Err(), &fe) {
		t.Fatalf("Err() = %v, want FormattingError", e.Err())
	}
	if e.Len() != 1 {
		t.Errorf("expected writes after the failure to be dropped, got %d lines", e.Len())
	}
}
