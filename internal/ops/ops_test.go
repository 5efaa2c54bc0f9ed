package ops

import (
	"bytes"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op       Op
		kind     Kind
		expected string
	}{
		{StartJob{}, KindStartJob, "StartJob"},
		{RapidMove{To: r2.Vec{X: 1.5, Y: -2}}, KindRapidMove, "RapidMove(1.5, -2)"},
		{LinearMove{To: r2.Vec{X: 3, Y: 4}}, KindLinearMove, "LinearMove(3, 4)"},
		{Plunge{}, KindPlunge, "Plunge"},
		{Plunge{Pass: 2}, KindPlunge, "Plunge(pass 2)"},
		{ToolChange{Tool: 3, Diameter: 0.8}, KindToolChange, "ToolChange(T3, 0.8)"},
		{ToolChange{Tool: 1, Diameter: 1, Position: &r2.Vec{X: 0, Y: 5}}, KindToolChange, "ToolChange(T1, 1, at 0, 5)"},
		{SpindleOn{Direction: "CW", Speed: 12000}, KindSpindleOn, "SpindleOn(CW, 12000)"},
		{Dwell{Seconds: 2.5}, KindDwell, "Dwell(2.5)"},
		{SetFeedrate{Value: 60, Axis: AxisZ}, KindSetFeedrate, "SetFeedrate(60, Z)"},
		{EndJob{}, KindEndJob, "EndJob"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.op.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
			if got := tt.op.Kind(); got != tt.kind {
				t.Errorf("Kind() = %s, want %s", got, tt.kind)
			}
		})
	}
}

func TestProgramPrint(t *testing.T) {
	prog := Program{StartJob{}, Lift{}, EndJob{}}
	var buf bytes.Buffer
	prog.Print(&buf)

	expected := "   0  StartJob\n   1  Lift\n   2  EndJob\n"
	if buf.String() != expected {
		t.Errorf("Print() = %q, want %q", buf.String(), expected)
	}
}

func TestProgramCount(t *testing.T) {
	prog := Program{
		StartJob{},
		ToolChange{Tool: 1},
		Plunge{},
		ToolChange{Tool: 2},
		EndJob{},
	}

	tests := []struct {
		kind     Kind
		expected int
	}{
		{KindToolChange, 2},
		{KindPlunge, 1},
		{KindDwell, 0},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := prog.Count(tt.kind); got != tt.expected {
				t.Errorf("Count(%s) = %d, want %d", tt.kind, got, tt.expected)
			}
		})
	}
}
