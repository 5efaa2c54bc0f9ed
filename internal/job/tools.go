package job

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/titanous/json5"

	"github.com/iley/gpost/internal/errs"
	"github.com/iley/gpost/internal/params"
)

type toolEntry struct {
	Diameter float64 `json:"diameter"`
	Drills   int     `json:"drills"`
}

// LoadTools reads a JSON5 tool table, an object keyed by tool number:
//
//	{
//	  // drills
//	  "1": {diameter: 0.8, drills: 12},
//	  T2: {diameter: 1.0, drills: 4},
//	}
func LoadTools(path string) (map[int]params.Tool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tool table: %w", err)
	}
	tools, err := ParseTools(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tools, nil
}

func ParseTools(data []byte) (map[int]params.Tool, error) {
	var raw map[string]toolEntry
	if err := json5.Unmarshal(data, &raw); err != nil {
		return nil, errs.Configf("tools", "%v", err)
	}

	tools := make(map[int]params.Tool, len(raw))
	for key, entry := range raw {
		id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(key), "T"))
		if err != nil {
			return nil, errs.Configf("tools", "bad tool number %q", key)
		}
		if _, dup := tools[id]; dup {
			return nil, errs.Configf("tools", "tool %d listed twice", id)
		}
		tools[id] = params.Tool{Diameter: entry.Diameter, Drills: entry.Drills}
	}
	tracer().Debugf("tool table with %d entries", len(tools))
	return tools, nil
}
