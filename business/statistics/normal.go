package statistics

import "math"

// Abramowitz & Stegun 7.1.26 coefficients; max absolute error 1.5e-7.
const (
	asA1 = 0.254829592
	asA2 = -0.284496736
	asA3 = 1.421413741
	asA4 = -1.453152027
	asA5 = 1.061405429
	asP  = 0.3275911
)

// NormalCDF is the standard normal cumulative distribution function,
// Phi(z) = 0.5 * (1 + erf(z / sqrt 2)) with erf from the A&S rational
// approximation.
func NormalCDF(z float64) float64 {
	sign := 1.0
	if z < 0 {
		sign = -1.0
	}
	x := math.Abs(z) / math.Sqrt2

	t := 1.0 / (1.0 + asP*x)
	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t
	t5 := t4 * t

	y := 1.0 - (((((asA5*t5 + asA4*t4) + asA3*t3) + asA2*t2) + asA1*t) * math.Exp(-x*x))

	return 0.5 * (1.0 + sign*y)
}
