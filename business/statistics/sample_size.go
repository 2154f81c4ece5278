package statistics

import (
	"errors"
	"fmt"
	"math"
)

// Critical values for a two-sided alpha of 0.05 and 80% power.
const (
	zAlpha = 1.96
	zBeta  = 0.84
)

var (
	ErrZeroEffect  = errors.New("minimum detectable effect must produce a different conversion rate")
	ErrInvalidRate = errors.New("conversion rates must lie strictly between 0 and 1")
)

// RequiredSampleSize is the per-arm sample size for a two-proportion z-test
// at alpha 0.05 and power 0.8, where mde is the relative lift over baseline
// (0.2 means +20%). Both the baseline and the lifted rate must lie in (0, 1).
func RequiredSampleSize(baseline, mde float64) (int, error) {
	if !isFinite(baseline) || !isFinite(mde) {
		return 0, ErrInvalidRate
	}

	p1 := baseline
	p2 := baseline * (1 + mde)
	if p1 == p2 {
		return 0, ErrZeroEffect
	}
	if p1 <= 0 || p1 >= 1 || p2 <= 0 || p2 >= 1 {
		return 0, fmt.Errorf("%w: baseline %v, target %v", ErrInvalidRate, p1, p2)
	}

	pBar := (p1 + p2) / 2
	numerator := 2 * pBar * (1 - pBar) * math.Pow(zAlpha+zBeta, 2)
	denominator := math.Pow(p1-p2, 2)

	return int(math.Ceil(numerator / denominator)), nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
