package job

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iley/gpost/internal/errs"
	"github.com/iley/gpost/internal/ops"
	"github.com/iley/gpost/internal/params"
)

// opSpec is one entry of the ops list. Which fields apply depends on Op.
type opSpec struct {
	Op        string    `yaml:"op"`
	X         *float64  `yaml:"x"`
	Y         *float64  `yaml:"y"`
	Pass      int       `yaml:"pass"`
	Tool      *float64  `yaml:"tool"`
	Diameter  float64   `yaml:"diameter"`
	At        []float64 `yaml:"at"`
	Direction string    `yaml:"direction"`
	Speed     *float64  `yaml:"speed"`
	Seconds   *float64  `yaml:"seconds"`
	Value     *float64  `yaml:"value"`
	Axis      string    `yaml:"axis"`
}

// buildProgram converts the decoded ops list. Values an op leaves out are
// taken from cfg.
func buildProgram(specs []opSpec, cfg *params.Config) (ops.Program, error) {
	prog := make(ops.Program, 0, len(specs))
	for i, spec := range specs {
		op, err := spec.build(cfg)
		if err != nil {
			return nil, errs.Integrityf(fmt.Sprintf("op %d (%s)", i, spec.Op), "%v", err)
		}
		prog = append(prog, op)
	}
	return prog, nil
}

func (s opSpec) build(cfg *params.Config) (ops.Op, error) {
	switch strings.ToLower(s.Op) {
	case "start":
		return ops.StartJob{}, nil
	case "end":
		return ops.EndJob{}, nil
	case "rapid":
		to, err := s.point()
		if err != nil {
			return nil, err
		}
		return ops.RapidMove{To: to}, nil
	case "linear", "move":
		to, err := s.point()
		if err != nil {
			return nil, err
		}
		return ops.LinearMove{To: to}, nil
	case "lift":
		return ops.Lift{}, nil
	case "plunge":
		if s.Pass < 0 {
			return nil, fmt.Errorf("negative pass %d", s.Pass)
		}
		return ops.Plunge{Pass: s.Pass}, nil
	case "up_to_zero":
		return ops.UpToZero{}, nil
	case "toolchange":
		if s.Tool == nil {
			return nil, fmt.Errorf("missing tool")
		}
		// Tool numbers arrive as floats from some CAM exports.
		tool := int(math.Trunc(*s.Tool))
		if tool < 0 {
			return nil, fmt.Errorf("negative tool number %d", tool)
		}
		tc := ops.ToolChange{Tool: tool, Diameter: s.Diameter}
		switch len(s.At) {
		case 0:
		case 2:
			tc.Position = &r2.Vec{X: s.At[0], Y: s.At[1]}
		default:
			return nil, fmt.Errorf("expected at: [x, y], got %d values", len(s.At))
		}
		return tc, nil
	case "spindle_on":
		speed := cfg.SpindleSpeed
		if s.Speed != nil {
			speed = *s.Speed
		}
		return ops.SpindleOn{Direction: s.Direction, Speed: speed}, nil
	case "spindle_off":
		return ops.SpindleOff{}, nil
	case "dwell":
		var seconds float64
		if cfg.Dwell {
			seconds = cfg.DwellTime
		}
		if s.Seconds != nil {
			seconds = *s.Seconds
		}
		if seconds < 0 {
			return nil, fmt.Errorf("negative dwell %g s", seconds)
		}
		return ops.Dwell{Seconds: seconds}, nil
	case "feedrate":
		f := ops.SetFeedrate{Value: cfg.Feedrate}
		switch strings.ToLower(s.Axis) {
		case "", "xy":
		case "z":
			f.Axis = ops.AxisZ
			f.Value = cfg.FeedrateZ
		default:
			return nil, fmt.Errorf("unknown axis %q", s.Axis)
		}
		if s.Value != nil {
			f.Value = *s.Value
		}
		return f, nil
	}
	return nil, fmt.Errorf("unknown operation %q", s.Op)
}

func (s opSpec) point() (r2.Vec, error) {
	if s.X == nil || s.Y == nil {
		return r2.Vec{}, fmt.Errorf("move needs both x and y")
	}
	return r2.Vec{X: *s.X, Y: *s.Y}, nil
}
