package configurator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iley/gpost/internal/calculators"
	"github.com/iley/gpost/internal/job"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	v := newViper(t)

	assert.Equal(t, job.Options{CoordDecimals: 4, FeedDecimals: 2, PostProcessor: "default"}, JobOptions(v))
	assert.Equal(t, calculators.VShape{TipDiameter: 0.2, TipAngle: 30, CutZ: -0.05}, VShape(v))
	assert.Equal(t, calculators.Plating{Length: 10, Width: 10, Density: 13, Growth: 10}, Plating(v))
}

func TestProcessConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.toml")
	doc := `
[decimals]
coords = 3

[postproc]
default = "Berta_CNC"

[calc.plating]
density = 20.5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	v := newViper(t)
	require.NoError(t, ProcessConfigFile(v, path))

	opts := JobOptions(v)
	assert.Equal(t, 3, opts.CoordDecimals)
	assert.Equal(t, 2, opts.FeedDecimals)
	assert.Equal(t, "Berta_CNC", opts.PostProcessor)
	assert.Equal(t, 20.5, Plating(v).Density)
}

func TestProcessConfigFileMissing(t *testing.T) {
	v := newViper(t)
	assert.Error(t, ProcessConfigFile(v, filepath.Join(t.TempDir(), "missing.toml")))

	// The implicit gpost.toml is optional.
	v = newViper(t)
	v.AddConfigPath(t.TempDir())
	assert.NoError(t, ProcessConfigFile(v, ""))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GPOST_DECIMALS_FEEDRATE", "0")
	t.Setenv("GPOST_POSTPROC_DEFAULT", "Marlin")

	opts := JobOptions(newViper(t))
	assert.Equal(t, 0, opts.FeedDecimals)
	assert.Equal(t, "Marlin", opts.PostProcessor)
}

func TestDiagnosticAllCfgPrint(t *testing.T) {
	var buf bytes.Buffer
	DiagnosticAllCfgPrint(newViper(t), &buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "calc.plating.density"))
	assert.Contains(t, buf.String(), "postproc.default     = default\n")
}
