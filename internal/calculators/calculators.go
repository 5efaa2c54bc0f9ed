// Package calculators holds the shop-floor helpers that sit next to the
// post-processor: effective V-bit diameter and electroplating settings.
package calculators

import (
	"math"

	"github.com/iley/gpost/internal/errs"
)

const (
	minValue = 0.000001
	maxValue = 9999.9999
)

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return errs.Configf(field, "%v is outside [%v, %v]", v, lo, hi)
	}
	return nil
}

// VShape describes a V-bit engraving cutter.
type VShape struct {
	TipDiameter float64
	// TipAngle is the included angle in degrees.
	TipAngle float64
	// CutZ is the cut depth, zero or negative.
	CutZ float64
}

func (v VShape) Validate() error {
	if err := checkRange("tipdia", v.TipDiameter, minValue, maxValue); err != nil {
		return err
	}
	if math.IsNaN(v.TipAngle) || v.TipAngle <= 0 || v.TipAngle >= 180 {
		return errs.Configf("tipangle", "%v must be strictly between 0 and 180 degrees", v.TipAngle)
	}
	return checkRange("cutz", v.CutZ, -maxValue, 0)
}

// Diameter is the width of the groove the bit cuts at CutZ, which is the
// tool diameter to use for isolation routing.
func (v VShape) Diameter() (float64, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	half := v.TipAngle / 2 * math.Pi / 180
	return v.TipDiameter + 2*math.Abs(v.CutZ)*math.Tan(half), nil
}
