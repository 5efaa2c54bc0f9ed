package postproc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/iley/gpost/internal/errs"
	"github.com/iley/gpost/internal/postproc/berta"
	"github.com/iley/gpost/internal/postproc/common"
	"github.com/iley/gpost/internal/postproc/grbl"
	"github.com/iley/gpost/internal/postproc/linuxcnc"
	"github.com/iley/gpost/internal/postproc/marlin"
)

// Registry maps dialect names to post-processors. Names are matched
// case-insensitively. A Registry is read-only once rendering starts.
type Registry struct {
	dialects map[string]common.PostProcessor
}

func NewRegistry() *Registry {
	return &Registry{dialects: make(map[string]common.PostProcessor)}
}

// DefaultRegistry returns a registry with every built-in dialect.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, pp := range []common.PostProcessor{
		linuxcnc.New(),
		berta.New(),
		grbl.New(),
		marlin.New(),
	} {
		if err := r.Register(pp); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(pp common.PostProcessor) error {
	key := strings.ToLower(pp.Name())
	if key == "" {
		return fmt.Errorf("post-processor with empty name")
	}
	if _, exists := r.dialects[key]; exists {
		return fmt.Errorf("post-processor %s registered twice", pp.Name())
	}
	r.dialects[key] = pp
	return nil
}

func (r *Registry) Lookup(name string) (common.PostProcessor, error) {
	pp, ok := r.dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errs.Configf("postprocessor", "unknown post-processor: %s", name)
	}
	return pp, nil
}

// Names returns the canonical dialect names, sorted.
func (r *Registry) Names() []string {
	names := lo.Map(lo.Values(r.dialects), func(pp common.PostProcessor, _ int) string {
		return pp.Name()
	})
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return names
}
