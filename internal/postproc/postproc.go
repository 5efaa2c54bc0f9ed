package postproc

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"

	"github.com/iley/gpost/internal/errs"
	"github.com/iley/gpost/internal/ops"
	"github.com/iley/gpost/internal/params"
	"github.com/iley/gpost/internal/postproc/common"
)

func tracer() tracing.Trace {
	return tracing.Select("gpost.postproc")
}

// Render walks prog once, in order, and returns the complete G-code
// document. Nothing is returned unless every operation rendered.
func Render(prog ops.Program, p *params.Bundle, pp common.PostProcessor) ([]byte, error) {
	if pp == nil {
		return nil, errs.Configf("postprocessor", "no post-processor selected")
	}
	if p == nil {
		return nil, errs.Configf("params", "no parameter bundle")
	}

	tracer().Debugf("rendering %d operations with %s", len(prog), pp.Name())
	s := newSession(pp, p)
	for i, op := range prog {
		if err := s.dispatch(op); err != nil {
			tracer().Errorf("%s: operation %d (%s) failed: %v", pp.Name(), i, op, err)
			return nil, fmt.Errorf("operation %d (%s): %w", i, op, err)
		}
	}

	var buf bytes.Buffer
	pp.Format(&buf, s.emitter.Lines())
	tracer().Infof("%s: rendered %d lines", pp.Name(), s.emitter.Len())
	return buf.Bytes(), nil
}

// RenderNamed selects the dialect from the registry before rendering, so an
// unknown name fails before any output is produced.
func RenderNamed(r *Registry, name string, prog ops.Program, p *params.Bundle) ([]byte, error) {
	pp, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Render(prog, p, pp)
}

type Job struct {
	Name          string
	PostProcessor string
	Program       ops.Program
	Params        *params.Bundle
}

type Result struct {
	Name   string
	Output []byte
	Err    error
}

// RenderAll renders independent jobs concurrently, one goroutine per job.
// Results are returned in the order of jobs.
func RenderAll(r *Registry, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		i, job := i, job
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := RenderNamed(r, job.PostProcessor, job.Program, job.Params)
			results[i] = Result{Name: job.Name, Output: out, Err: err}
		}()
	}
	wg.Wait()
	return results
}
