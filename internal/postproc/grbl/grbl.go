// Package grbl targets GRBL 1.1. GRBL has no tool changer support and
// rejects M6, so a tool change is a spindle stop, a retract and an M0 pause
// with the tool named in a comment. Feedrates are repeated on every cutting
// move because GRBL senders commonly resume mid-file.
package grbl

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iley/gpost/internal/gcode"
	"github.com/iley/gpost/internal/params"
	"github.com/iley/gpost/internal/postproc/common"
)

const Name = "GRBL_11"

type PostProcessor struct{}

var _ common.PostProcessor = PostProcessor{}

func New() PostProcessor {
	return PostProcessor{}
}

func (PostProcessor) Name() string {
	return Name
}

func (PostProcessor) Start(e *gcode.Emitter, p *params.Bundle) {
	common.JobSummary(e, p, Name)
	e.Blank()
	e.Op(common.UnitsDirective(p))
	e.Op("G90 G17 G94")
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
	e.Op("G01", e.Coord("Z", p.PassDepth(pass)), e.Feed("F", feed))
}

func (PostProcessor) UpToZero(e *gcode.Emitter, p *params.Bundle, feed float64) {
	e.Op("G01", gcode.Raw("Z", "0"), e.Feed("F", feed))
}

func (PostProcessor) ToolChange(e *gcode.Emitter, p *params.Bundle, tc common.ToolChange) {
	e.Op("M5")
	e.Op("G00", e.Coord("Z", p.ZToolchange()))
	if tc.Position != nil {
		e.Op("G00", e.Coord("X", tc.Position.X), e.Coord("Y", tc.Position.Y))
	}
	e.Comment(fmt.Sprintf("T%d: ", tc.Tool) + common.ToolMessage(e, p, tc))
	e.Op("M0")
	if p.FPlunge() {
		e.Op("G00", e.Coord("Z", p.ZMove()))
	}
}

func (PostProcessor) RapidMove(e *gcode.Emitter, p *params.Bundle, to r2.Vec) {
	e.Op("G00", e.Coord("X", to.X), e.Coord("Y", to.Y))
}

func (PostProcessor) LinearMove(e *gcode.Emitter, p *params.Bundle, to r2.Vec, feed float64) {
	e.Op("G01", e.Coord("X", to.X), e.Coord("Y", to.Y), e.Feed("F", feed))
}

func (PostProcessor) SetFeedrate(e *gcode.Emitter, p *params.Bundle, feedrate float64) {
	e.Op("G01", e.Feed("F", feedrate))
}

func (PostProcessor) SetZFeedrate(e *gcode.Emitter, p *params.Bundle, feedrate float64) {
	e.Op("G01", e.Feed("F", feedrate))
}

func (PostProcessor) SpindleOn(e *gcode.Emitter, p *params.Bundle, dir params.SpindleDirection, speed float64) {
	cmd := "M3"
	if dir == params.CCW {
		cmd = "M4"
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
	e.Op("M5")
}

func (PostProcessor) End(e *gcode.Emitter, p *params.Bundle) {
	e.Op("G00", e.Coord("Z", p.ZEnd()))
	if xy := p.ToolchangeXY(); xy != nil {
		e.Op("G00", e.Coord("X", xy.X), e.Coord("Y", xy.Y))
	}
	e.Op("M5")
	e.Op("M2")
}

func (PostProcessor) Format(out io.Writer, lines []gcode.Line) {
	common.FormatParens(out, lines)
}
