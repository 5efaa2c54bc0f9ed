package util

import (
	"math"
	"strconv"
	"strings"

	"github.com/iley/gpost/internal/errs"
)

// FormatFixed renders v with exactly decimals fractional digits, rounding
// half away from zero. The output never uses exponent notation or digit
// grouping and does not depend on the locale.
func FormatFixed(v float64, decimals int) (string, error) {
	if decimals < 0 {
		return "", errs.Configf("decimals", "precision must be non-negative, got %d", decimals)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", &errs.FormattingError{Value: v}
	}

	scale := math.Pow(10, float64(decimals))
	scaled := v * scale
	if math.IsInf(scaled, 0) || math.Abs(scaled) >= 1<<53 {
		// Already beyond float64 integer precision, nothing left to round.
		return strconv.FormatFloat(v, 'f', decimals, 64), nil
	}

	rounded := math.Round(scaled) / scale
	if rounded == 0 {
		// Drop the sign of negative zero.
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', decimals, 64), nil
}

// FormatShort renders v with the fewest digits that round-trip, still
// without exponent notation. Used for human-facing header values.
func FormatShort(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", &errs.FormattingError{Value: v}
	}
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// RightJustify pads s on the left with spaces up to width runes.
func RightJustify(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
