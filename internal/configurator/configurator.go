package configurator

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/iley/gpost/internal/calculators"
	"github.com/iley/gpost/internal/job"
)

const (
	CfgCoordDecimals   string = "decimals.coords"
	CfgFeedDecimals    string = "decimals.feedrate"
	CfgDefaultPostProc string = "postproc.default"

	CfgVShapeTipDia   string = "calc.vshape.tipdia"
	CfgVShapeTipAngle string = "calc.vshape.tipangle"
	CfgVShapeCutZ     string = "calc.vshape.cutz"

	CfgPlatingLength  string = "calc.plating.length"
	CfgPlatingWidth   string = "calc.plating.width"
	CfgPlatingDensity string = "calc.plating.density"
	CfgPlatingGrowth  string = "calc.plating.growth"
)

const EnvPrefix = "GPOST"

func SetDefaults(v *viper.Viper) {
	v.SetConfigName("gpost")
	v.AddConfigPath(".")
	v.SetConfigType("toml")

	// GPOST_DECIMALS_COORDS and friends
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(CfgCoordDecimals, 4)
	v.SetDefault(CfgFeedDecimals, 2)
	v.SetDefault(CfgDefaultPostProc, "default")

	v.SetDefault(CfgVShapeTipDia, 0.2)
	v.SetDefault(CfgVShapeTipAngle, 30)
	v.SetDefault(CfgVShapeCutZ, -0.05)

	v.SetDefault(CfgPlatingLength, 10)
	v.SetDefault(CfgPlatingWidth, 10)
	v.SetDefault(CfgPlatingDensity, 13)
	v.SetDefault(CfgPlatingGrowth, 10)
}

// ProcessConfigFile reads path, or gpost.toml from the search path when path
// is empty. Only an explicitly named file has to exist.
func ProcessConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		return nil
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// JobOptions projects the configuration onto the job loader's defaults.
func JobOptions(v *viper.Viper) job.Options {
	return job.Options{
		CoordDecimals: v.GetInt(CfgCoordDecimals),
		FeedDecimals:  v.GetInt(CfgFeedDecimals),
		PostProcessor: v.GetString(CfgDefaultPostProc),
	}
}

func VShape(v *viper.Viper) calculators.VShape {
	return calculators.VShape{
		TipDiameter: v.GetFloat64(CfgVShapeTipDia),
		TipAngle:    v.GetFloat64(CfgVShapeTipAngle),
		CutZ:        v.GetFloat64(CfgVShapeCutZ),
	}
}

func Plating(v *viper.Viper) calculators.Plating {
	return calculators.Plating{
		Length:  v.GetFloat64(CfgPlatingLength),
		Width:   v.GetFloat64(CfgPlatingWidth),
		Density: v.GetFloat64(CfgPlatingDensity),
		Growth:  v.GetFloat64(CfgPlatingGrowth),
	}
}

// DiagnosticAllCfgPrint writes every effective setting, one per line,
// sorted by key.
func DiagnosticAllCfgPrint(v *viper.Viper, out io.Writer) {
	keys := v.AllKeys()
	slices.Sort(keys)
	width := lo.Max(lo.Map(keys, func(k string, _ int) int { return len(k) }))
	for _, key := range keys {
		fmt.Fprintf(out, "%-*s = %v\n", width, key, v.Get(key))
	}
}
