package params

import (
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iley/gpost/internal/errs"
)

type Units int

const (
	UnitsMM Units = iota
	UnitsInch
)

func (u Units) String() string {
	if u == UnitsInch {
		return "in"
	}
	return "mm"
}

func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm", "metric":
		return UnitsMM, nil
	case "in", "inch", "imperial":
		return UnitsInch, nil
	}
	return 0, errs.Configf("units", "unknown units %q", s)
}

type JobType int

const (
	Geometry JobType = iota
	Excellon
	ExcellonGeometry
)

func (t JobType) String() string {
	switch t {
	case Excellon:
		return "Excellon"
	case ExcellonGeometry:
		return "Excellon Geometry"
	}
	return "Geometry"
}

// IsDrilling reports whether tool changes must resolve drill counts from
// the tool table.
func (t JobType) IsDrilling() bool {
	return t == Excellon
}

// IsExcellon reports whether the job originates from a drill file, i.e.
// whether the excellon post-processor name applies.
func (t JobType) IsExcellon() bool {
	return t == Excellon || t == ExcellonGeometry
}

func ParseJobType(s string) (JobType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "geometry", "milling", "":
		return Geometry, nil
	case "excellon", "drilling":
		return Excellon, nil
	case "excellon geometry", "excellon_geometry", "mixed":
		return ExcellonGeometry, nil
	}
	return 0, errs.Configf("job_type", "unknown job type %q", s)
}

type SpindleDirection int

const (
	CW SpindleDirection = iota
	CCW
)

func (d SpindleDirection) String() string {
	if d == CCW {
		return "CCW"
	}
	return "CW"
}

func ParseSpindleDirection(s string) (SpindleDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CW", "":
		return CW, nil
	case "CCW":
		return CCW, nil
	}
	return 0, errs.Configf("spindle_dir", "unknown spindle direction %q", s)
}

type Tool struct {
	Diameter float64
	Drills   int
}

type BoundingBox struct {
	XMin, YMin, XMax, YMax float64
}

// Config is the mutable input to New. Optional values are pointers; nil
// means "not configured".
type Config struct {
	Units   Units
	JobType JobType
	ToolDia float64
	ZCut    float64
	ZMove   float64
	ZEnd    float64
	StartZ  *float64

	MultiDepth  bool
	DepthPerCut float64

	ZToolchange  float64
	ToolchangeXY *r2.Vec

	Feedrate      float64
	FeedrateZ     float64
	FeedrateRapid float64
	FPlunge       bool

	SpindleDir   SpindleDirection
	SpindleSpeed float64

	Dwell     bool
	DwellTime float64

	CoordDecimals int
	FeedDecimals  int

	Bounds         BoundingBox
	StepsPerCircle int
	Tools          map[int]Tool

	GeometryPostProcessor string
	ExcellonPostProcessor string
}

// Bundle is the validated, read-only snapshot of a job's parameters. It is
// safe to share between goroutines.
type Bundle struct {
	cfg   Config
	tools map[int]Tool
}

func New(cfg Config) (*Bundle, error) {
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	b := &Bundle{cfg: cfg, tools: make(map[int]Tool, len(cfg.Tools))}
	for id, tool := range cfg.Tools {
		b.tools[id] = tool
	}
	b.cfg.Tools = nil
	if cfg.StartZ != nil {
		startZ := *cfg.StartZ
		b.cfg.StartZ = &startZ
	}
	if cfg.ToolchangeXY != nil {
		xy := *cfg.ToolchangeXY
		b.cfg.ToolchangeXY = &xy
	}
	return b, nil
}

func validate(cfg *Config) error {
	if cfg.CoordDecimals < 0 {
		return errs.Configf("decimals", "coordinate precision must be non-negative, got %d", cfg.CoordDecimals)
	}
	if cfg.FeedDecimals < 0 {
		return errs.Configf("fr_decimals", "feedrate precision must be non-negative, got %d", cfg.FeedDecimals)
	}
	if cfg.Units != UnitsMM && cfg.Units != UnitsInch {
		return errs.Configf("units", "invalid units value %d", cfg.Units)
	}
	if cfg.JobType < Geometry || cfg.JobType > ExcellonGeometry {
		return errs.Configf("job_type", "invalid job type value %d", cfg.JobType)
	}
	if cfg.SpindleDir != CW && cfg.SpindleDir != CCW {
		return errs.Configf("spindle_dir", "invalid spindle direction value %d", cfg.SpindleDir)
	}
	if cfg.StepsPerCircle < 0 {
		return errs.Configf("steps_per_circle", "must be non-negative, got %d", cfg.StepsPerCircle)
	}

	finite := map[string]float64{
		"tool_dia":       cfg.ToolDia,
		"z_cut":          cfg.ZCut,
		"z_move":         cfg.ZMove,
		"z_end":          cfg.ZEnd,
		"depth_per_cut":  cfg.DepthPerCut,
		"z_toolchange":   cfg.ZToolchange,
		"feedrate":       cfg.Feedrate,
		"feedrate_z":     cfg.FeedrateZ,
		"feedrate_rapid": cfg.FeedrateRapid,
		"spindle_speed":  cfg.SpindleSpeed,
		"dwell_time":     cfg.DwellTime,
		"xmin":           cfg.Bounds.XMin,
		"xmax":           cfg.Bounds.XMax,
		"ymin":           cfg.Bounds.YMin,
		"ymax":           cfg.Bounds.YMax,
	}
	if cfg.StartZ != nil {
		finite["start_z"] = *cfg.StartZ
	}
	if cfg.ToolchangeXY != nil {
		finite["toolchange_x"] = cfg.ToolchangeXY.X
		finite["toolchange_y"] = cfg.ToolchangeXY.Y
	}
	// Sorted so the reported field is stable.
	fields := lo.Keys(finite)
	slices.Sort(fields)
	for _, field := range fields {
		v := finite[field]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.Configf(field, "value must be finite, got %v", v)
		}
	}

	if cfg.MultiDepth && cfg.DepthPerCut <= 0 {
		return errs.Configf("depth_per_cut", "must be positive when multidepth is enabled, got %v", cfg.DepthPerCut)
	}
	if cfg.SpindleSpeed < 0 {
		return errs.Configf("spindle_speed", "must be non-negative, got %v", cfg.SpindleSpeed)
	}
	if cfg.Dwell && cfg.DwellTime < 0 {
		return errs.Configf("dwell_time", "must be non-negative, got %v", cfg.DwellTime)
	}
	if cfg.JobType.IsDrilling() && len(cfg.Tools) == 0 {
		return errs.Configf("tools", "drilling job requires a non-empty tool table")
	}
	for id, tool := range cfg.Tools {
		if math.IsNaN(tool.Diameter) || math.IsInf(tool.Diameter, 0) || tool.Diameter < 0 {
			return errs.Configf("tools", "tool %d has invalid diameter %v", id, tool.Diameter)
		}
		if tool.Drills < 0 {
			return errs.Configf("tools", "tool %d has negative drill count %d", id, tool.Drills)
		}
	}
	return nil
}
