// Package job reads job files: a YAML document holding the machining
// parameters and the ordered operation list produced by the CAM stage.
package job

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akavel/polyclip-go"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v2"

	"github.com/iley/gpost/internal/errs"
	"github.com/iley/gpost/internal/ops"
	"github.com/iley/gpost/internal/params"
	"github.com/iley/gpost/internal/postproc"
)

func tracer() tracing.Trace {
	return tracing.Select("gpost.job")
}

// Options carries what the job file may leave out.
type Options struct {
	// Name overrides the job name given in the file.
	Name          string
	CoordDecimals int
	FeedDecimals  int
	PostProcessor string
	// Tools are merged over the job's own tool table.
	Tools map[int]params.Tool
}

type toolSpec struct {
	Diameter float64 `yaml:"diameter"`
	Drills   int     `yaml:"drills"`
}

type boundsSpec struct {
	XMin float64 `yaml:"xmin"`
	YMin float64 `yaml:"ymin"`
	XMax float64 `yaml:"xmax"`
	YMax float64 `yaml:"ymax"`
}

type paramsSpec struct {
	Units          string           `yaml:"units"`
	JobType        string           `yaml:"job_type"`
	ToolDia        float64          `yaml:"tool_dia"`
	ZCut           float64          `yaml:"z_cut"`
	ZMove          float64          `yaml:"z_move"`
	ZEnd           float64          `yaml:"z_end"`
	StartZ         *float64         `yaml:"start_z"`
	MultiDepth     bool             `yaml:"multidepth"`
	DepthPerCut    float64          `yaml:"depth_per_cut"`
	ZToolchange    float64          `yaml:"z_toolchange"`
	ToolchangeXY   []float64        `yaml:"toolchange_xy"`
	Feedrate       float64          `yaml:"feedrate"`
	FeedrateZ      float64          `yaml:"feedrate_z"`
	FeedrateRapid  float64          `yaml:"feedrate_rapid"`
	FPlunge        bool             `yaml:"f_plunge"`
	SpindleDir     string           `yaml:"spindle_dir"`
	SpindleSpeed   float64          `yaml:"spindle_speed"`
	Dwell          bool             `yaml:"dwell"`
	DwellTime      float64          `yaml:"dwell_time"`
	Decimals       *int             `yaml:"decimals"`
	FeedDecimals   *int             `yaml:"fr_decimals"`
	StepsPerCircle int              `yaml:"steps_per_circle"`
	Bounds         *boundsSpec      `yaml:"bounds"`
	Tools          map[int]toolSpec `yaml:"tools"`
	GeometryPP     string           `yaml:"geometry_postprocessor"`
	ExcellonPP     string           `yaml:"excellon_postprocessor"`
}

type file struct {
	Name          string     `yaml:"name"`
	PostProcessor string     `yaml:"postprocessor"`
	Params        paramsSpec `yaml:"params"`
	Ops           []opSpec   `yaml:"ops"`
}

// Load reads and parses the job file at path.
func Load(path string, opts Options) (postproc.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return postproc.Job{}, fmt.Errorf("reading job file: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	j, err := parse(data, opts, base)
	if err != nil {
		return postproc.Job{}, fmt.Errorf("%s: %w", path, err)
	}
	return j, nil
}

// Parse decodes a job document. Unknown keys are rejected.
func Parse(data []byte, opts Options) (postproc.Job, error) {
	return parse(data, opts, "")
}

func parse(data []byte, opts Options, fallbackName string) (postproc.Job, error) {
	var f file
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return postproc.Job{}, errs.Configf("job", "%v", err)
	}

	cfg, err := f.Params.config(opts)
	if err != nil {
		return postproc.Job{}, err
	}

	prog, err := buildProgram(f.Ops, &cfg)
	if err != nil {
		return postproc.Job{}, err
	}

	if f.Params.Bounds == nil {
		cfg.Bounds = boundingBox(prog)
		tracer().Debugf("computed bounding box %+v", cfg.Bounds)
	}

	bundle, err := params.New(cfg)
	if err != nil {
		return postproc.Job{}, err
	}

	j := postproc.Job{
		Name:          firstNonEmpty(opts.Name, f.Name, fallbackName),
		PostProcessor: firstNonEmpty(f.PostProcessor, opts.PostProcessor),
		Program:       prog,
		Params:        bundle,
	}
	tracer().Infof("loaded job %q: %d operations, %d tool changes, %d tools",
		j.Name, len(prog), prog.Count(ops.KindToolChange), len(bundle.ToolIDs()))
	return j, nil
}

func (s *paramsSpec) config(opts Options) (params.Config, error) {
	var err error
	cfg := params.Config{
		ToolDia:               s.ToolDia,
		ZCut:                  s.ZCut,
		ZMove:                 s.ZMove,
		ZEnd:                  s.ZEnd,
		StartZ:                s.StartZ,
		MultiDepth:            s.MultiDepth,
		DepthPerCut:           s.DepthPerCut,
		ZToolchange:           s.ZToolchange,
		Feedrate:              s.Feedrate,
		FeedrateZ:             s.FeedrateZ,
		FeedrateRapid:         s.FeedrateRapid,
		FPlunge:               s.FPlunge,
		SpindleSpeed:          s.SpindleSpeed,
		Dwell:                 s.Dwell,
		DwellTime:             s.DwellTime,
		CoordDecimals:         opts.CoordDecimals,
		FeedDecimals:          opts.FeedDecimals,
		StepsPerCircle:        s.StepsPerCircle,
		GeometryPostProcessor: s.GeometryPP,
		ExcellonPostProcessor: s.ExcellonPP,
	}
	if cfg.Units, err = params.ParseUnits(firstNonEmpty(s.Units, "mm")); err != nil {
		return cfg, err
	}
	if cfg.JobType, err = params.ParseJobType(s.JobType); err != nil {
		return cfg, err
	}
	if cfg.SpindleDir, err = params.ParseSpindleDirection(s.SpindleDir); err != nil {
		return cfg, err
	}
	if s.Decimals != nil {
		cfg.CoordDecimals = *s.Decimals
	}
	if s.FeedDecimals != nil {
		cfg.FeedDecimals = *s.FeedDecimals
	}

	switch len(s.ToolchangeXY) {
	case 0:
	case 2:
		cfg.ToolchangeXY = &r2.Vec{X: s.ToolchangeXY[0], Y: s.ToolchangeXY[1]}
	default:
		return cfg, errs.Configf("toolchange_xy", "expected [x, y], got %d values", len(s.ToolchangeXY))
	}

	if s.Bounds != nil {
		cfg.Bounds = params.BoundingBox{XMin: s.Bounds.XMin, YMin: s.Bounds.YMin, XMax: s.Bounds.XMax, YMax: s.Bounds.YMax}
	}

	cfg.Tools = make(map[int]params.Tool, len(s.Tools)+len(opts.Tools))
	for id, t := range s.Tools {
		cfg.Tools[id] = params.Tool{Diameter: t.Diameter, Drills: t.Drills}
	}
	for id, t := range opts.Tools {
		if _, ok := cfg.Tools[id]; ok {
			tracer().Debugf("tool table overrides T%d", id)
		}
		cfg.Tools[id] = t
	}
	return cfg, nil
}

// boundingBox covers every XY position the program visits. A program
// without planar moves has an empty box at the origin.
func boundingBox(prog ops.Program) params.BoundingBox {
	var contour polyclip.Contour
	for _, op := range prog {
		switch op := op.(type) {
		case ops.RapidMove:
			contour.Add(polyclip.Point{X: op.To.X, Y: op.To.Y})
		case ops.LinearMove:
			contour.Add(polyclip.Point{X: op.To.X, Y: op.To.Y})
		}
	}
	if len(contour) == 0 {
		return params.BoundingBox{}
	}
	bb := contour.BoundingBox()
	return params.BoundingBox{XMin: bb.Min.X, YMin: bb.Min.Y, XMax: bb.Max.X, YMax: bb.Max.Y}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
