package statistics

import (
	"math"

	"behaviorOpt/domain"
)

const (
	// Z95 is the two-sided 95% critical value.
	Z95 = 1.96
	// SignificanceLevel is the fixed alpha for IsSignificant.
	SignificanceLevel = 0.05
)

// WilsonInterval is the 95% Wilson score interval for a binomial proportion,
// clamped to [0, 1]. Zero trials yield [0, 0].
func WilsonInterval(successes, trials int64) domain.ConfidenceInterval {
	if trials == 0 {
		return domain.ConfidenceInterval{}
	}

	n := float64(trials)
	phat := float64(successes) / n
	z2 := Z95 * Z95

	denom := 1 + z2/n
	center := (phat + z2/(2*n)) / denom
	// the radicand only goes negative for conversions > users
	halfWidth := Z95 * math.Sqrt(math.Max(0, phat*(1-phat)/n+z2/(4*n*n))) / denom

	return domain.ConfidenceInterval{
		Lower: math.Max(0, center-halfWidth),
		Upper: math.Min(1, center+halfWidth),
	}
}

// PValue is the two-sided p-value of a pooled two-proportion z-test. When the
// standard error is zero or undefined (an empty group) there is no evidence of
// a difference and the result is 1.
func PValue(successesA, trialsA, successesB, trialsB int64) float64 {
	if trialsA == 0 || trialsB == 0 {
		return 1
	}

	nA := float64(trialsA)
	nB := float64(trialsB)
	pA := float64(successesA) / nA
	pB := float64(successesB) / nB
	pooled := float64(successesA+successesB) / (nA + nB)

	se := math.Sqrt(pooled * (1 - pooled) * (1/nA + 1/nB))
	if se == 0 || math.IsNaN(se) {
		return 1
	}

	z := math.Abs(pA-pB) / se
	return 2 * (1 - NormalCDF(z))
}

// IsSignificant reports whether pValue is below the fixed alpha of 0.05.
func IsSignificant(pValue float64) bool {
	return pValue < SignificanceLevel
}

// Uplift is the relative change of variantRate over controlRate in percent;
// 0 when the control never converted.
func Uplift(variantRate, controlRate float64) float64 {
	if controlRate <= 0 {
		return 0
	}
	return (variantRate - controlRate) / controlRate * 100
}

func conversionRate(conversions, users int64) float64 {
	if users <= 0 {
		return 0
	}
	return float64(conversions) / float64(users)
}
