// Package berta emits G-code for the Berta CNC controller, a LinuxCNC
// derivative with custom M110/M111 start and stop macros.
package berta

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iley/gpost/internal/gcode"
	"github.com/iley/gpost/internal/params"
	"github.com/iley/gpost/internal/postproc/common"
)

const Name = "Berta_CNC"

type PostProcessor struct{}

var _ common.PostProcessor = PostProcessor{}

func New() PostProcessor {
	return PostProcessor{}
}

func (PostProcessor) Name() string {
	return Name
}

func (PostProcessor) Start(e *gcode.Emitter, p *params.Bundle) {
	units := p.UnitsLabel()
	geometry := p.JobType() == params.Geometry

	if geometry {
		e.Comment("TOOL DIAMETER: " + e.ShortText(p.ToolDia()) + units)
	}
	e.Comment("Feedrate: " + e.ShortText(p.Feedrate()) + units + "/min")
	if geometry {
		e.Comment("Feedrate_Z: " + e.ShortText(p.FeedrateZ()) + units + "/min")
	}
	e.Comment("Feedrate rapids " + e.ShortText(p.FeedrateRapid()) + units + "/min")
	e.Blank()

	e.Comment("Z_Cut: " + e.ShortText(p.ZCut()) + units)
	if geometry && p.MultiDepth() {
		e.Comment("DepthPerCut: " + common.DepthPerCutText(e, p))
	}
	e.Comment("Z_Move: " + e.ShortText(p.ZMove()) + units)
	e.Comment("Z Toolchange: " + e.ShortText(p.ZToolchange()) + units)
	e.Comment("X,Y Toolchange: " + common.ToolchangeXYText(e, p) + units)
	e.Comment("Z Start: " + common.StartZText(e, p) + units)
	e.Comment("Z End: " + e.ShortText(p.ZEnd()) + units)
	e.Comment(fmt.Sprintf("Steps per circle: %d", p.StepsPerCircle()))
	e.Comment(common.PostProcessorComment(p, Name))
	e.Blank()

	common.RangeComments(e, p)
	e.Blank()

	e.Comment("Spindle Speed: " + e.ShortText(p.SpindleSpeed()) + " RPM")
	e.Op(common.UnitsDirective(p))
	e.Blank()

	e.Op("G90 G17 G91.1")
	e.Op("G64", gcode.Raw("P", "0.03"))
	e.Op("M110")
	e.Op("G54")
	e.Op("G0")
	e.Comment("Berta")
	e.Op("G94")
}

func (PostProcessor) StartHeight(e *gcode.Emitter, p *params.Bundle) {
	if startZ, ok := p.StartZ(); ok {
		e.Op("G00", e.Coord("Z", startZ))
	}
}

func (PostProcessor) Lift(e *gcode.Emitter, p *params.Bundle) {
	e.Op("G00", e.Coord("Z", p.ZMove()))
}

func (PostProcessor) Plunge(e *gcode.Emitter, p *params.Bundle, pass int, feed float64) {
	e.Op("G01", e.Coord("Z", p.PassDepth(pass)))
}

func (PostProcessor) UpToZero(e *gcode.Emitter, p *params.Bundle, feed float64) {
	e.Op("G01", gcode.Raw("Z", "0"))
}

// ToolChange stops the spindle, travels to the change position and waits
// for the operator. Berta machines are homed at job start, so the first
// change happens at the start height when one is configured.
func (PostProcessor) ToolChange(e *gcode.Emitter, p *params.Bundle, tc common.ToolChange) {
	zToolchange := p.ZToolchange()
	if startZ, ok := p.StartZ(); ok && tc.First {
		zToolchange = startZ
	}

	e.Op("M5")
	e.Op("G00", e.Coord("Z", zToolchange))
	if tc.Position != nil {
		e.Op("G00", e.Coord("X", tc.Position.X), e.Coord("Y", tc.Position.Y))
	}
	e.Op(fmt.Sprintf("T%d", tc.Tool))
	e.Op("M6")
	e.Comment("MSG, " + common.ToolMessage(e, p, tc))
	e.Op("M0")

	// The Z reference may be lost during a manual change.
	if p.FPlunge() {
		e.Op("G00", e.Coord("Z", p.ZMove()))
	}
}

func (PostProcessor) RapidMove(e *gcode.Emitter, p *params.Bundle, to r2.Vec) {
	e.Op("G00", e.Coord("X", to.X), e.Coord("Y", to.Y))
}

func (PostProcessor) LinearMove(e *gcode.Emitter, p *params.Bundle, to r2.Vec, feed float64) {
	e.Op("G01", e.Coord("X", to.X), e.Coord("Y", to.Y))
}

func (PostProcessor) SetFeedrate(e *gcode.Emitter, p *params.Bundle, feedrate float64) {
	e.Op("G01", e.Feed("F", feedrate))
}

func (PostProcessor) SetZFeedrate(e *gcode.Emitter, p *params.Bundle, feedrate float64) {
	e.Op("G01", e.Feed("F", feedrate))
}

func (PostProcessor) SpindleOn(e *gcode.Emitter, p *params.Bundle, dir params.SpindleDirection, speed float64) {
	cmd := "M03"
	if dir == params.CCW {
		cmd = "M04"
	}
	if speed != 0 {
		e.Op(cmd, gcode.Raw("S", e.ShortText(speed)))
		return
	}
	e.Op(cmd)
}

func (PostProcessor) Dwell(e *gcode.Emitter, p *params.Bundle, seconds float64) {
	if seconds != 0 {
		e.Op("G4", gcode.Raw("P", e.ShortText(seconds)))
	}
}

func (PostProcessor) SpindleOff(e *gcode.Emitter, p *params.Bundle) {
	e.Op("M05")
}

func (PostProcessor) End(e *gcode.Emitter, p *params.Bundle) {
	e.Op("G00", e.Coord("Z", p.ZEnd()))
	if xy := p.ToolchangeXY(); xy != nil {
		e.Op("G00", e.Coord("X", xy.X), e.Coord("Y", xy.Y))
	}
	e.Comment("Berta")
	e.Op("M111")
	e.Op("M30")
	e.Comment("Berta")
}

func (PostProcessor) Format(out io.Writer, lines []gcode.Line) {
	common.FormatParens(out, lines)
}
