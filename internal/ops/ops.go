package ops

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r2"
)

/*
Operations are the post-processor's input: an ordered sequence produced by
the CAM stage. Each operation maps to one post-processor hook.

 * StartJob - header and machine initialization, then the optional move to start height.
 * RapidMove(X, Y) / LinearMove(X, Y) - planar positioning at rapid or cutting feed.
 * Lift - retract to the safe height.
 * Plunge(Pass) - cut down to the depth of the given pass (0 means full depth).
 * UpToZero - feed up to Z0.
 * ToolChange(Tool, Diameter, Position) - stop, travel to the change position and swap tools.
 * SpindleOn(Direction, Speed) / SpindleOff.
 * Dwell(Seconds) - pause without motion.
 * SetFeedrate(Value, Axis) - planar or vertical feedrate.
 * EndJob - retract, return and stop the program.
*/

type Kind int

const (
	KindStartJob Kind = iota
	KindRapidMove
	KindLinearMove
	KindLift
	KindPlunge
	KindUpToZero
	KindToolChange
	KindSpindleOn
	KindSpindleOff
	KindDwell
	KindSetFeedrate
	KindEndJob
)

var kindNames = map[Kind]string{
	KindStartJob:    "StartJob",
	KindRapidMove:   "RapidMove",
	KindLinearMove:  "LinearMove",
	KindLift:        "Lift",
	KindPlunge:      "Plunge",
	KindUpToZero:    "UpToZero",
	KindToolChange:  "ToolChange",
	KindSpindleOn:   "SpindleOn",
	KindSpindleOff:  "SpindleOff",
	KindDwell:       "Dwell",
	KindSetFeedrate: "SetFeedrate",
	KindEndJob:      "EndJob",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Op interface {
	fmt.Stringer
	Kind() Kind
}

type AxisClass int

const (
	AxisXY AxisClass = iota
	AxisZ
)

func (a AxisClass) String() string {
	if a == AxisZ {
		return "Z"
	}
	return "XY"
}

type StartJob struct{}

func (StartJob) Kind() Kind     { return KindStartJob }
func (StartJob) String() string { return "StartJob" }

type RapidMove struct {
	To r2.Vec
}

func (RapidMove) Kind() Kind { return KindRapidMove }

func (m RapidMove) String() string {
	return fmt.Sprintf("RapidMove(%g, %g)", m.To.X, m.To.Y)
}

type LinearMove struct {
	To r2.Vec
}

func (LinearMove) Kind() Kind { return KindLinearMove }

func (m LinearMove) String() string {
	return fmt.Sprintf("LinearMove(%g, %g)", m.To.X, m.To.Y)
}

type Lift struct{}

func (Lift) Kind() Kind     { return KindLift }
func (Lift) String() string { return "Lift" }

type Plunge struct {
	Pass int
}

func (Plunge) Kind() Kind { return KindPlunge }

func (p Plunge) String() string {
	if p.Pass == 0 {
		return "Plunge"
	}
	return fmt.Sprintf("Plunge(pass %d)", p.Pass)
}

type UpToZero struct{}

func (UpToZero) Kind() Kind     { return KindUpToZero }
func (UpToZero) String() string { return "UpToZero" }

// ToolChange swaps to Tool. A zero Diameter is resolved from the tool
// table; a nil Position falls back to the job's toolchange position.
type ToolChange struct {
	Tool     int
	Diameter float64
	Position *r2.Vec
}

func (ToolChange) Kind() Kind { return KindToolChange }

func (t ToolChange) String() string {
	if t.Position != nil {
		return fmt.Sprintf("ToolChange(T%d, %g, at %g, %g)", t.Tool, t.Diameter, t.Position.X, t.Position.Y)
	}
	return fmt.Sprintf("ToolChange(T%d, %g)", t.Tool, t.Diameter)
}

type SpindleOn struct {
	Direction string
	Speed     float64
}

func (SpindleOn) Kind() Kind { return KindSpindleOn }

func (s SpindleOn) String() string {
	return fmt.Sprintf("SpindleOn(%s, %g)", s.Direction, s.Speed)
}

type SpindleOff struct{}

func (SpindleOff) Kind() Kind     { return KindSpindleOff }
func (SpindleOff) String() string { return "SpindleOff" }

type Dwell struct {
	Seconds float64
}

func (Dwell) Kind() Kind { return KindDwell }

func (d Dwell) String() string {
	return fmt.Sprintf("Dwell(%g)", d.Seconds)
}

type SetFeedrate struct {
	Value float64
	Axis  AxisClass
}

func (SetFeedrate) Kind() Kind { return KindSetFeedrate }

func (f SetFeedrate) String() string {
	return fmt.Sprintf("SetFeedrate(%g, %s)", f.Value, f.Axis)
}

type EndJob struct{}

func (EndJob) Kind() Kind     { return KindEndJob }
func (EndJob) String() string { return "EndJob" }

type Program []Op

func (p Program) Print(writer io.Writer) {
	for i, op := range p {
		fmt.Fprintf(writer, "%4d  %s\n", i, op)
	}
}

// Count returns how many operations of the given kind the program holds.
func (p Program) Count(kind Kind) int {
	n := 0
	for _, op := range p {
		if op.Kind() == kind {
			n++
		}
	}
	return n
}
