package calculators

// Copper deposition constants.
const (
	copperMolarMass = 63.546     // g/mol
	copperValence   = 2          // electrons per ion
	copperDensity   = 8.96e6     // g/m^3
	faraday         = 96485.332  // C/mol
	asfToSI         = 10.7639104 // A/m^2 per A/ft^2

	// ampsPerCm2ASF converts board area in cm^2 at 1 ASF into amperes,
	// counting both sides of the board.
	ampsPerCm2ASF = 0.0021527820833419
)

// Plating holds the electroplating bath inputs. Length and Width are in
// centimeters, Density in amperes per square foot and Growth in microns.
type Plating struct {
	Length  float64
	Width   float64
	Density float64
	Growth  float64
}

func (p Plating) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"length", p.Length},
		{"width", p.Width},
		{"density", p.Density},
		{"growth", p.Growth},
	}
	for _, c := range checks {
		if err := checkRange(c.field, c.value, minValue, maxValue); err != nil {
			return err
		}
	}
	return nil
}

// Current is the bath current in amperes.
func (p Plating) Current() (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return p.Length * p.Width * p.Density * ampsPerCm2ASF, nil
}

// GrowthRate is the copper thickness deposited per minute, in microns, at
// the given current density and full cathode efficiency.
func GrowthRate(density float64) float64 {
	metersPerSecond := density * asfToSI * copperMolarMass / (copperValence * faraday * copperDensity)
	return metersPerSecond * 1e6 * 60
}

// Time is the plating time in minutes needed to reach Growth.
func (p Plating) Time() (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return p.Growth / GrowthRate(p.Density), nil
}
