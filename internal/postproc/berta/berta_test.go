package berta

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iley/gpost/internal/gcode"
	"github.com/iley/gpost/internal/params"
	"github.com/iley/gpost/internal/postproc/common"
	"github.com/iley/gpost/internal/util"
)

func newBundle(t *testing.T, modify func(*params.Config)) *params.Bundle {
	t.Helper()
	cfg := params.Config{
		Units:          params.UnitsMM,
		JobType:        params.Geometry,
		ToolDia:        0.1,
		ZCut:           -0.05,
		ZMove:          2,
		ZEnd:           0.5,
		ZToolchange:    15,
		Feedrate:       120,
		FeedrateZ:      60,
		FeedrateRapid:  1500,
		SpindleSpeed:   12000,
		CoordDecimals:  4,
		FeedDecimals:   2,
		StepsPerCircle: 64,
		Bounds:         params.BoundingBox{XMax: 10, YMax: 20},
	}
	if modify != nil {
		modify(&cfg)
	}
	p, err := params.New(cfg)
	require.NoError(t, err)
	return p
}

// emit runs a hook and returns the formatted lines.
func emit(t *testing.T, p *params.Bundle, hook func(e *gcode.Emitter)) []string {
	t.Helper()
	e := gcode.NewEmitter(p.CoordDecimals(), p.FeedDecimals())
	hook(e)
	require.NoError(t, e.Err())

	var buf bytes.Buffer
	New().Format(&buf, e.Lines())
	out := buf.String()
	if out == "" {
		return nil
	}
	require.True(t, strings.HasSuffix(out, "\n"), "output must be newline-terminated")
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

func TestToolChangeSequence(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*params.Config)
		tc       common.ToolChange
		expected []string
	}{
		{
			name: "with toolchange position",
			modify: func(c *params.Config) {
				c.ToolchangeXY = &r2.Vec{X: 0, Y: 0}
			},
			tc: common.ToolChange{Tool: 1, Diameter: 0.8, Position: &r2.Vec{X: 0, Y: 0}},
			expected: []string{
				"M5",
				"G00 Z15.0000",
				"G00 X0.0000 Y0.0000",
				"T1",
				"M6",
				"(MSG, Change to Tool Dia = 0.8000)",
				"M0",
			},
		},
		{
			name: "without toolchange position",
			tc:   common.ToolChange{Tool: 1, Diameter: 0.8},
			expected: []string{
				"M5",
				"G00 Z15.0000",
				"T1",
				"M6",
				"(MSG, Change to Tool Dia = 0.8000)",
				"M0",
			},
		},
		{
			name: "first tool uses start height",
			modify: func(c *params.Config) {
				c.StartZ = util.Float64Ptr(10.0)
			},
			tc: common.ToolChange{Tool: 2, Diameter: 1.2, First: true},
			expected: []string{
				"M5",
				"G00 Z10.0000",
				"T2",
				"M6",
				"(MSG, Change to Tool Dia = 1.2000)",
				"M0",
			},
		},
		{
			name: "later tool uses toolchange height",
			modify: func(c *params.Config) {
				c.StartZ = util.Float64Ptr(10.0)
			},
			tc: common.ToolChange{Tool: 2, Diameter: 1.2},
			expected: []string{
				"M5",
				"G00 Z15.0000",
				"T2",
				"M6",
				"(MSG, Change to Tool Dia = 1.2000)",
				"M0",
			},
		},
		{
			name: "first tool without start height",
			tc:   common.ToolChange{Tool: 1, Diameter: 0.8, First: true},
			expected: []string{
				"M5",
				"G00 Z15.0000",
				"T1",
				"M6",
				"(MSG, Change to Tool Dia = 0.8000)",
				"M0",
			},
		},
		{
			name: "drilling job reports drill count",
			modify: func(c *params.Config) {
				c.JobType = params.Excellon
				c.Tools = map[int]params.Tool{3: {Diameter: 0.9, Drills: 42}}
			},
			tc: common.ToolChange{Tool: 3, Diameter: 0.9, Drills: 42},
			expected: []string{
				"M5",
				"G00 Z15.0000",
				"T3",
				"M6",
				"(MSG, Change to Tool Dia = 0.9000 ||| Total drills for tool T3 = 42)",
				"M0",
			},
		},
		{
			name: "re-lift after manual change",
			modify: func(c *params.Config) {
				c.FPlunge = true
			},
			tc: common.ToolChange{Tool: 1, Diameter: 0.8},
			expected: []string{
				"M5",
				"G00 Z15.0000",
				"T1",
				"M6",
				"(MSG, Change to Tool Dia = 0.8000)",
				"M0",
				"G00 Z2.0000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newBundle(t, tt.modify)
			got := emit(t, p, func(e *gcode.Emitter) { New().ToolChange(e, p, tt.tc) })
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSpindleOn(t *testing.T) {
	p := newBundle(t, nil)
	tests := []struct {
		dir      params.SpindleDirection
		speed    float64
		expected []string
	}{
		{params.CW, 0, []string{"M03"}},
		{params.CW, 12000, []string{"M03 S12000"}},
		{params.CCW, 0, []string{"M04"}},
		{params.CCW, 8000.5, []string{"M04 S8000.5"}},
	}

	for _, tt := range tests {
		got := emit(t, p, func(e *gcode.Emitter) { New().SpindleOn(e, p, tt.dir, tt.speed) })
		assert.Equal(t, tt.expected, got)
	}
}

func TestDwell(t *testing.T) {
	p := newBundle(t, nil)
	assert.Empty(t, emit(t, p, func(e *gcode.Emitter) { New().Dwell(e, p, 0) }))
	assert.Equal(t, []string{"G4 P2.5"}, emit(t, p, func(e *gcode.Emitter) { New().Dwell(e, p, 2.5) }))
}

func TestMotion(t *testing.T) {
	p := newBundle(t, func(c *params.Config) {
		c.MultiDepth = true
		c.DepthPerCut = 0.02
	})
	pp := New()

	tests := []struct {
		name     string
		hook     func(e *gcode.Emitter)
		expected string
	}{
		{"lift", func(e *gcode.Emitter) { pp.Lift(e, p) }, "G00 Z2.0000"},
		{"plunge full depth", func(e *gcode.Emitter) { pp.Plunge(e, p, 0, p.FeedrateZ()) }, "G01 Z-0.0500"},
		{"plunge first pass", func(e *gcode.Emitter) { pp.Plunge(e, p, 1, p.FeedrateZ()) }, "G01 Z-0.0200"},
		{"up to zero", func(e *gcode.Emitter) { pp.UpToZero(e, p, p.FeedrateZ()) }, "G01 Z0"},
		{"rapid", func(e *gcode.Emitter) { pp.RapidMove(e, p, r2.Vec{X: 1.23456, Y: -7}) }, "G00 X1.2346 Y-7.0000"},
		{"linear", func(e *gcode.Emitter) { pp.LinearMove(e, p, r2.Vec{X: 3, Y: 4.5}, p.Feedrate()) }, "G01 X3.0000 Y4.5000"},
		{"feedrate", func(e *gcode.Emitter) { pp.SetFeedrate(e, p, 120) }, "G01 F120.00"},
		{"z feedrate", func(e *gcode.Emitter) { pp.SetZFeedrate(e, p, 60.125) }, "G01 F60.13"},
		{"spindle off", func(e *gcode.Emitter) { pp.SpindleOff(e, p) }, "M05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{tt.expected}, emit(t, p, tt.hook))
		})
	}
}

func TestStartHeight(t *testing.T) {
	p := newBundle(t, nil)
	assert.Empty(t, emit(t, p, func(e *gcode.Emitter) { New().StartHeight(e, p) }))

	p = newBundle(t, func(c *params.Config) {
		c.StartZ = util.Float64Ptr(25.0)
	})
	assert.Equal(t, []string{"G00 Z25.0000"}, emit(t, p, func(e *gcode.Emitter) { New().StartHeight(e, p) }))
}

func TestStartUnitsDirective(t *testing.T) {
	for _, units := range []params.Units{params.UnitsMM, params.UnitsInch} {
		p := newBundle(t, func(c *params.Config) { c.Units = units })
		lines := emit(t, p, func(e *gcode.Emitter) { New().Start(e, p) })

		var g20, g21 int
		for _, line := range lines {
			switch line {
			case "G20":
				g20++
			case "G21":
				g21++
			}
		}
		if units == params.UnitsInch {
			assert.Equal(t, 1, g20)
			assert.Equal(t, 0, g21)
		} else {
			assert.Equal(t, 0, g20)
			assert.Equal(t, 1, g21)
		}
	}
}

func TestStartHeaderForDrilling(t *testing.T) {
	p := newBundle(t, func(c *params.Config) {
		c.JobType = params.Excellon
		c.Units = params.UnitsInch
		c.Tools = map[int]params.Tool{1: {Diameter: 0.035, Drills: 10}}
		c.ToolchangeXY = &r2.Vec{X: 1, Y: 2}
		c.ExcellonPostProcessor = Name
	})
	lines := emit(t, p, func(e *gcode.Emitter) { New().Start(e, p) })

	assert.NotContains(t, lines, "(TOOL DIAMETER: 0.1 in)")
	assert.NotContains(t, lines, "(Feedrate_Z: 60 in/min)")
	assert.Contains(t, lines, "(Feedrate: 120 in/min)")
	assert.Contains(t, lines, "(X,Y Toolchange: 1.0000, 2.0000 in)")
	assert.Contains(t, lines, "(Preprocessor Excellon: Berta_CNC)")
	assert.Contains(t, lines, "(X range:    0.0000 ...   10.0000  in)")
	assert.Contains(t, lines, "G20")
}

func TestEnd(t *testing.T) {
	p := newBundle(t, func(c *params.Config) {
		c.ToolchangeXY = &r2.Vec{X: 5, Y: 5}
	})
	got := emit(t, p, func(e *gcode.Emitter) { New().End(e, p) })
	assert.Equal(t, []string{
		"G00 Z0.5000",
		"G00 X5.0000 Y5.0000",
		"(Berta)",
		"M111",
		"M30",
		"(Berta)",
	}, got)
}
