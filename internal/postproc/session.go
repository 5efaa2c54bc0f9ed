package postproc

import (
	"github.com/iley/gpost/internal/errs"
	"github.com/iley/gpost/internal/gcode"
	"github.com/iley/gpost/internal/ops"
	"github.com/iley/gpost/internal/params"
	"github.com/iley/gpost/internal/postproc/common"
)

// session is the state of a single render. toolChanges only ever grows;
// it tells the dialect which tool change is the first one. feedXY and feedZ
// start at the bundle feedrates and follow SetFeedrate operations.
type session struct {
	pp          common.PostProcessor
	params      *params.Bundle
	emitter     *gcode.Emitter
	toolChanges int
	feedXY      float64
	feedZ       float64
}

func newSession(pp common.PostProcessor, p *params.Bundle) *session {
	return &session{
		pp:      pp,
		params:  p,
		emitter: gcode.NewEmitter(p.CoordDecimals(), p.FeedDecimals()),
		feedXY:  p.Feedrate(),
		feedZ:   p.FeedrateZ(),
	}
}

func (s *session) dispatch(op ops.Op) error {
	e, p := s.emitter, s.params

	switch op := op.(type) {
	case ops.StartJob:
		s.pp.Start(e, p)
		s.pp.StartHeight(e, p)
	case ops.RapidMove:
		s.pp.RapidMove(e, p, op.To)
	case ops.LinearMove:
		s.pp.LinearMove(e, p, op.To, s.feedXY)
	case ops.Lift:
		s.pp.Lift(e, p)
	case ops.Plunge:
		s.pp.Plunge(e, p, op.Pass, s.feedZ)
	case ops.UpToZero:
		s.pp.UpToZero(e, p, s.feedZ)
	case ops.ToolChange:
		tc, err := s.resolveToolChange(op)
		if err != nil {
			return err
		}
		s.pp.ToolChange(e, p, tc)
	case ops.SpindleOn:
		dir := p.SpindleDir()
		if op.Direction != "" {
			var err error
			dir, err = params.ParseSpindleDirection(op.Direction)
			if err != nil {
				return errs.Integrityf(op.String(), "%v", err)
			}
		}
		s.pp.SpindleOn(e, p, dir, op.Speed)
	case ops.SpindleOff:
		s.pp.SpindleOff(e, p)
	case ops.Dwell:
		s.pp.Dwell(e, p, op.Seconds)
	case ops.SetFeedrate:
		if op.Axis == ops.AxisZ {
			s.feedZ = op.Value
			s.pp.SetZFeedrate(e, p, op.Value)
		} else {
			s.feedXY = op.Value
			s.pp.SetFeedrate(e, p, op.Value)
		}
	case ops.EndJob:
		s.pp.End(e, p)
	default:
		return errs.Integrityf(op.String(), "unsupported operation %T", op)
	}

	return e.Err()
}

func (s *session) resolveToolChange(op ops.ToolChange) (common.ToolChange, error) {
	p := s.params
	tc := common.ToolChange{
		Tool:     op.Tool,
		Diameter: op.Diameter,
		Position: p.ToolchangeXY(),
		First:    s.toolChanges == 0,
	}
	if op.Position != nil {
		pos := *op.Position
		tc.Position = &pos
	}

	tool, known := p.Tool(op.Tool)
	if p.JobType().IsDrilling() {
		drills, err := p.Drills(op.Tool)
		if err != nil {
			return tc, err
		}
		tc.Drills = drills
	}
	if tc.Diameter == 0 {
		if !known {
			return tc, errs.Integrityf(op.String(), "tool T%d has no diameter and is not in the tool table", op.Tool)
		}
		tc.Diameter = tool.Diameter
	}

	s.toolChanges++
	return tc, nil
}
