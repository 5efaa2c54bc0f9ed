package common

import (
	"fmt"
	"math"

	"github.com/iley/gpost/internal/gcode"
	"github.com/iley/gpost/internal/params"
	"github.com/iley/gpost/internal/util"
)

const rangeFieldWidth = 9

// RangeComments writes the bounding box summary. The bounds are right
// justified so that both lines line up.
func RangeComments(e *gcode.Emitter, p *params.Bundle) {
	b := p.Bounds()
	e.Comment(rangeText(e, p, "X", b.XMin, b.XMax))
	e.Comment(rangeText(e, p, "Y", b.YMin, b.YMax))
}

func rangeText(e *gcode.Emitter, p *params.Bundle, axis string, lo, hi float64) string {
	return fmt.Sprintf("%s range: %s ... %s %s", axis,
		util.RightJustify(e.CoordText(lo), rangeFieldWidth),
		util.RightJustify(e.CoordText(hi), rangeFieldWidth),
		p.UnitsLabel())
}

// ToolchangeXYText renders the toolchange position for the header, or
// "None" when the job has none.
func ToolchangeXYText(e *gcode.Emitter, p *params.Bundle) string {
	xy := p.ToolchangeXY()
	if xy == nil {
		return "None"
	}
	return e.CoordText(xy.X) + ", " + e.CoordText(xy.Y)
}

func StartZText(e *gcode.Emitter, p *params.Bundle) string {
	startZ, ok := p.StartZ()
	if !ok {
		return "None"
	}
	return e.ShortText(startZ)
}

// DepthPerCutText is the multi-depth summary, e.g. "0.02 mm <=>3 passes".
func DepthPerCutText(e *gcode.Emitter, p *params.Bundle) string {
	passes := int(math.Ceil(math.Abs(p.ZCut()) / p.DepthPerCut()))
	return fmt.Sprintf("%s%s <=>%d passes", e.ShortText(p.DepthPerCut()), p.UnitsLabel(), passes)
}

// PostProcessorComment names the post-processor that applies to the job
// type, falling back to the dialect's own name.
func PostProcessorComment(p *params.Bundle, dialect string) string {
	if p.JobType().IsExcellon() {
		return "Preprocessor Excellon: " + util.SanitizeComment(orDefault(p.ExcellonPostProcessor(), dialect))
	}
	return "Preprocessor Geometry: " + util.SanitizeComment(orDefault(p.GeometryPostProcessor(), dialect))
}

// UnitsDirective is G20 for inch jobs and G21 for metric ones.
func UnitsDirective(p *params.Bundle) string {
	if p.Units() == params.UnitsInch {
		return "G20"
	}
	return "G21"
}

// ToolMessage is the operator prompt shown at a tool change.
func ToolMessage(e *gcode.Emitter, p *params.Bundle, tc ToolChange) string {
	msg := "Change to Tool Dia = " + e.CoordText(tc.Diameter)
	if p.JobType().IsDrilling() {
		msg += fmt.Sprintf(" ||| Total drills for tool T%d = %d", tc.Tool, tc.Drills)
	}
	return msg
}

// JobSummary writes the parameter summary comment block shared by the
// generic dialects.
func JobSummary(e *gcode.Emitter, p *params.Bundle, dialect string) {
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
	e.Comment("Z_Cut: " + e.ShortText(p.ZCut()) + units)
	if geometry && p.MultiDepth() {
		e.Comment("DepthPerCut: " + DepthPerCutText(e, p))
	}
	e.Comment("Z_Move: " + e.ShortText(p.ZMove()) + units)
	e.Comment("Z Toolchange: " + e.ShortText(p.ZToolchange()) + units)
	e.Comment("X,Y Toolchange: " + ToolchangeXYText(e, p) + units)
	e.Comment("Z Start: " + StartZText(e, p) + units)
	e.Comment("Z End: " + e.ShortText(p.ZEnd()) + units)
	e.Comment(fmt.Sprintf("Steps per circle: %d", p.StepsPerCircle()))
	e.Comment(PostProcessorComment(p, dialect))
	RangeComments(e, p)
	e.Comment("Spindle Speed: " + e.ShortText(p.SpindleSpeed()) + " RPM")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
