package marlin

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iley/gpost/internal/errs"
	"github.com/iley/gpost/internal/gcode"
	"github.com/iley/gpost/internal/params"
	"github.com/iley/gpost/internal/postproc/common"
)

func bundle(t *testing.T) *params.Bundle {
	t.Helper()
	p, err := params.New(params.Config{
		ToolDia:        0.2,
		ZCut:           -0.1,
		ZMove:          3,
		ZEnd:           10,
		ZToolchange:    20,
		Feedrate:       200,
		FeedrateZ:      50,
		FeedrateRapid:  1000,
		CoordDecimals:  2,
		FeedDecimals:   0,
		StepsPerCircle: 16,
		ToolchangeXY:   &r2.Vec{X: 0, Y: 0},
	})
	require.NoError(t, err)
	return p
}

func lines(t *testing.T, p *params.Bundle, hook func(e *gcode.Emitter)) []string {
	t.Helper()
	e := gcode.NewEmitter(p.CoordDecimals(), p.FeedDecimals())
	hook(e)
	require.NoError(t, e.Err())
	var buf bytes.Buffer
	New().Format(&buf, e.Lines())
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestMoves(t *testing.T) {
	p := bundle(t)
	pp := New()

	tests := []struct {
		name     string
		hook     func(e *gcode.Emitter)
		expected string
	}{
		{"lift", func(e *gcode.Emitter) { pp.Lift(e, p) }, "G0 Z3.00 F1000"},
		{"plunge", func(e *gcode.Emitter) { pp.Plunge(e, p, 0, p.FeedrateZ()) }, "G1 Z-0.10 F50"},
		{"rapid", func(e *gcode.Emitter) { pp.RapidMove(e, p, r2.Vec{X: 1, Y: 2}) }, "G0 X1.00 Y2.00 F1000"},
		{"linear", func(e *gcode.Emitter) { pp.LinearMove(e, p, r2.Vec{X: 1, Y: 2}, p.Feedrate()) }, "G1 X1.00 Y2.00 F200"},
		{"linear at a changed feed", func(e *gcode.Emitter) { pp.LinearMove(e, p, r2.Vec{X: 1, Y: 2}, 40) }, "G1 X1.00 Y2.00 F40"},
		{"plunge at a changed feed", func(e *gcode.Emitter) { pp.Plunge(e, p, 0, 10) }, "G1 Z-0.10 F10"},
		{"dwell in milliseconds", func(e *gcode.Emitter) { pp.Dwell(e, p, 2.5) }, "G4 P2500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{tt.expected}, lines(t, p, tt.hook))
		})
	}
}

func TestToolChange(t *testing.T) {
	p := bundle(t)
	tc := common.ToolChange{Tool: 1, Diameter: 0.8, Position: p.ToolchangeXY()}
	got := lines(t, p, func(e *gcode.Emitter) { New().ToolChange(e, p, tc) })

	assert.Equal(t, []string{
		"M5",
		"G0 Z20.00 F1000",
		"G0 X0.00 Y0.00 F1000",
		"M117 Change to T1",
		"; Change to Tool Dia = 0.80",
		"M0",
	}, got)
}

func TestEnd(t *testing.T) {
	p := bundle(t)
	got := lines(t, p, func(e *gcode.Emitter) { New().End(e, p) })
	assert.Equal(t, []string{"G0 Z10.00 F1000", "G0 X0.00 Y0.00 F1000", "M5", "M84"}, got)
}

func TestDwellRejectsNaN(t *testing.T) {
	p := bundle(t)
	e := gcode.NewEmitter(p.CoordDecimals(), p.FeedDecimals())
	New().Dwell(e, p, math.NaN())

	var fe *errs.FormattingError
	assert.True(t, errors.As(e.Err(), &fe))
	assert.Zero(t, e.Len())
}

func TestFormatComments(t *testing.T) {
	var buf bytes.Buffer
	New().Format(&buf, []gcode.Line{
		gcode.Comment("header"),
		gcode.Blank(),
		{Op: "M0", Comment: "pause"},
	})
	assert.Equal(t, "; header\n\nM0 ; pause\n", buf.String())
}
