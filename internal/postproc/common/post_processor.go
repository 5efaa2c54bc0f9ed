package common

import (
	"io"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iley/gpost/internal/gcode"
	"github.com/iley/gpost/internal/params"
)

// ToolChange is a tool change resolved against the job: Position is the
// effective toolchange XY (nil when none is configured), First is set for
// the first change of the session and Drills is filled in for drilling jobs.
type ToolChange struct {
	Tool     int
	Diameter float64
	Position *r2.Vec
	First    bool
	Drills   int
}

// PostProcessor is a machine dialect. Implementations hold no mutable state;
// every hook writes its lines into e and reads whatever it needs from p.
// The feed passed to cutting moves is the current feedrate for that axis,
// which SetFeedrate and SetZFeedrate may have changed since the job start.
type PostProcessor interface {
	Name() string

	Start(e *gcode.Emitter, p *params.Bundle)
	StartHeight(e *gcode.Emitter, p *params.Bundle)
	Lift(e *gcode.Emitter, p *params.Bundle)
	Plunge(e *gcode.Emitter, p *params.Bundle, pass int, feed float64)
	UpToZero(e *gcode.Emitter, p *params.Bundle, feed float64)
	ToolChange(e *gcode.Emitter, p *params.Bundle, tc ToolChange)
	RapidMove(e *gcode.Emitter, p *params.Bundle, to r2.Vec)
	LinearMove(e *gcode.Emitter, p *params.Bundle, to r2.Vec, feed float64)
	SetFeedrate(e *gcode.Emitter, p *params.Bundle, feedrate float64)
	SetZFeedrate(e *gcode.Emitter, p *params.Bundle, feedrate float64)
	SpindleOn(e *gcode.Emitter, p *params.Bundle, dir params.SpindleDirection, speed float64)
	Dwell(e *gcode.Emitter, p *params.Bundle, seconds float64)
	SpindleOff(e *gcode.Emitter, p *params.Bundle)
	End(e *gcode.Emitter, p *params.Bundle)

	// Format writes lines using the dialect's comment syntax, one
	// newline-terminated line each.
	Format(out io.Writer, lines []gcode.Line)
}
