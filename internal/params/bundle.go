package params

import (
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iley/gpost/internal/errs"
)

func (b *Bundle) Units() Units     { return b.cfg.Units }
func (b *Bundle) JobType() JobType { return b.cfg.JobType }
func (b *Bundle) ToolDia() float64 { return b.cfg.ToolDia }
func (b *Bundle) ZCut() float64    { return b.cfg.ZCut }
func (b *Bundle) ZMove() float64   { return b.cfg.ZMove }
func (b *Bundle) ZEnd() float64    { return b.cfg.ZEnd }

func (b *Bundle) MultiDepth() bool     { return b.cfg.MultiDepth }
func (b *Bundle) DepthPerCut() float64 { return b.cfg.DepthPerCut }
func (b *Bundle) ZToolchange() float64 { return b.cfg.ZToolchange }

func (b *Bundle) Feedrate() float64      { return b.cfg.Feedrate }
func (b *Bundle) FeedrateZ() float64     { return b.cfg.FeedrateZ }
func (b *Bundle) FeedrateRapid() float64 { return b.cfg.FeedrateRapid }
func (b *Bundle) FPlunge() bool          { return b.cfg.FPlunge }

func (b *Bundle) SpindleDir() SpindleDirection { return b.cfg.SpindleDir }
func (b *Bundle) SpindleSpeed() float64        { return b.cfg.SpindleSpeed }

func (b *Bundle) CoordDecimals() int { return b.cfg.CoordDecimals }
func (b *Bundle) FeedDecimals() int  { return b.cfg.FeedDecimals }

func (b *Bundle) Bounds() BoundingBox { return b.cfg.Bounds }
func (b *Bundle) StepsPerCircle() int { return b.cfg.StepsPerCircle }

func (b *Bundle) GeometryPostProcessor() string { return b.cfg.GeometryPostProcessor }
func (b *Bundle) ExcellonPostProcessor() string { return b.cfg.ExcellonPostProcessor }

// StartZ returns the configured start height and whether one is set.
func (b *Bundle) StartZ() (float64, bool) {
	if b.cfg.StartZ == nil {
		return 0, false
	}
	return *b.cfg.StartZ, true
}

// ToolchangeXY returns a copy of the toolchange position, or nil when the
// job has no explicit toolchange travel.
func (b *Bundle) ToolchangeXY() *r2.Vec {
	if b.cfg.ToolchangeXY == nil {
		return nil
	}
	xy := *b.cfg.ToolchangeXY
	return &xy
}

// UnitsLabel is the units suffix used in header comments, with its leading
// space: " mm" or " in".
func (b *Bundle) UnitsLabel() string {
	return " " + b.cfg.Units.String()
}

// Passes is the number of depth passes needed to reach ZCut.
func (b *Bundle) Passes() int {
	if !b.cfg.MultiDepth {
		return 1
	}
	return int(math.Ceil(math.Abs(b.cfg.ZCut) / b.cfg.DepthPerCut))
}

// PassDepth returns the cut depth of the given 1-based pass. Pass 0, and any
// pass beyond the last, cuts to the full ZCut.
func (b *Bundle) PassDepth(pass int) float64 {
	if pass <= 0 || !b.cfg.MultiDepth {
		return b.cfg.ZCut
	}
	depth := float64(pass) * b.cfg.DepthPerCut
	if depth >= math.Abs(b.cfg.ZCut) {
		return b.cfg.ZCut
	}
	if b.cfg.ZCut < 0 {
		return -depth
	}
	return depth
}

func (b *Bundle) Tool(id int) (Tool, bool) {
	tool, ok := b.tools[id]
	return tool, ok
}

// Drills returns the number of holes drilled with the given tool.
func (b *Bundle) Drills(id int) (int, error) {
	tool, ok := b.tools[id]
	if !ok {
		return 0, errs.Integrityf("toolchange", "tool T%d is not in the tool table", id)
	}
	return tool.Drills, nil
}

func (b *Bundle) ToolIDs() []int {
	ids := lo.Keys(b.tools)
	slices.Sort(ids)
	return ids
}

func (b *Bundle) TotalDrills() int {
	return lo.SumBy(lo.Values(b.tools), func(t Tool) int { return t.Drills })
}
