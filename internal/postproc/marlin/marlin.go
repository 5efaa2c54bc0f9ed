// Package marlin targets Marlin firmware running a spindle or laser
// toolhead. Marlin has no modal feedrate per motion mode, so every move
// carries its own F word, and G4 takes milliseconds.
package marlin

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iley/gpost/internal/gcode"
	"github.com/iley/gpost/internal/params"
	"github.com/iley/gpost/internal/postproc/common"
)

const Name = "Marlin"

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
	e.Op("G90")
}

func (PostProcessor) StartHeight(e *gcode.Emitter, p *params.Bundle) {
	if startZ, ok := p.StartZ(); ok {
		e.Op("G0", e.Coord("Z", startZ), e.Feed("F", p.FeedrateRapid()))
	}
}

func (PostProcessor) Lift(e *gcode.Emitter, p *params.Bundle) {
	e.Op("G0", e.Coord("Z", p.ZMove()), e.Feed("F", p.FeedrateRapid()))
}

func (PostProcessor) Plunge(e *gcode.Emitter, p *params.Bundle, pass int, feed float64) {
	e.Op("G1", e.Coord("Z", p.PassDepth(pass)), e.Feed("F", feed))
}

func (PostProcessor) UpToZero(e *gcode.Emitter, p *params.Bundle, feed float64) {
	e.Op("G1", gcode.Raw("Z", "0"), e.Feed("F", feed))
}

func (PostProcessor) ToolChange(e *gcode.Emitter, p *params.Bundle, tc common.ToolChange) {
	e.Op("M5")
	e.Op("G0", e.Coord("Z", p.ZToolchange()), e.Feed("F", p.FeedrateRapid()))
	if tc.Position != nil {
		e.Op("G0", e.Coord("X", tc.Position.X), e.Coord("Y", tc.Position.Y), e.Feed("F", p.FeedrateRapid()))
	}
	e.Op(fmt.Sprintf("M117 Change to T%d", tc.Tool))
	e.Comment(common.ToolMessage(e, p, tc))
	e.Op("M0")
	if p.FPlunge() {
		e.Op("G0", e.Coord("Z", p.ZMove()), e.Feed("F", p.FeedrateRapid()))
	}
}

func (PostProcessor) RapidMove(e *gcode.Emitter, p *params.Bundle, to r2.Vec) {
	e.Op("G0", e.Coord("X", to.X), e.Coord("Y", to.Y), e.Feed("F", p.FeedrateRapid()))
}

func (PostProcessor) LinearMove(e *gcode.Emitter, p *params.Bundle, to r2.Vec, feed float64) {
	e.Op("G1", e.Coord("X", to.X), e.Coord("Y", to.Y), e.Feed("F", feed))
}

func (PostProcessor) SetFeedrate(e *gcode.Emitter, p *params.Bundle, feedrate float64) {
	e.Op("G1", e.Feed("F", feedrate))
}

func (PostProcessor) SetZFeedrate(e *gcode.Emitter, p *params.Bundle, feedrate float64) {
	e.Op("G1", e.Feed("F", feedrate))
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
	if seconds == 0 {
		return
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		// Let the formatter report it.
		e.ShortText(seconds)
		return
	}
	e.Op("G4", gcode.Int("P", int(math.Round(seconds*1000))))
}

func (PostProcessor) SpindleOff(e *gcode.Emitter, p *params.Bundle) {
	e.Op("M5")
}

func (PostProcessor) End(e *gcode.Emitter, p *params.Bundle) {
	e.Op("G0", e.Coord("Z", p.ZEnd()), e.Feed("F", p.FeedrateRapid()))
	if xy := p.ToolchangeXY(); xy != nil {
		e.Op("G0", e.Coord("X", xy.X), e.Coord("Y", xy.Y), e.Feed("F", p.FeedrateRapid()))
	}
	e.Op("M5")
	e.Op("M84")
}

func (PostProcessor) Format(out io.Writer, lines []gcode.Line) {
	for _, line := range lines {
		formatLine(out, line)
	}
}
