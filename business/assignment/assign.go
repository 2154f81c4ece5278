package assignment

import (
	"fmt"

	"behaviorOpt/domain"
)

// Result describes one assignment decision.
type Result struct {
	Variant  domain.Variant
	Included bool
	// Fallback is set when no cumulative weight covered the variant bucket
	// (weights summing below 100) and the first variant was used.
	Fallback bool
}

// Assign returns the variant for userID, or false when the user falls
// outside the experiment's traffic allocation.
func Assign(userID string, exp domain.Experiment) (domain.Variant, bool) {
	res := Decide(userID, exp)
	return res.Variant, res.Included
}

// Decide is Assign with the fallback flag exposed. It panics on an empty
// variant list or a negative weight: both are caller bugs that would corrupt
// the experiment.
func Decide(userID string, exp domain.Experiment) Result {
	if len(exp.Variants) == 0 {
		panic(fmt.Sprintf("assignment: experiment %q has no variants", exp.ID))
	}
	for _, v := range exp.Variants {
		if v.WeightPercentage < 0 {
			panic(fmt.Sprintf("assignment: variant %q of experiment %q has negative weight %v", v.ID, exp.ID, v.WeightPercentage))
		}
	}

	if TrafficBucket(exp.ID, userID) > exp.TrafficAllocation {
		return Result{}
	}

	variantPct := float64(VariantBucket(exp.ID, userID))

	cumulative := 0.0
	for _, v := range exp.Variants {
		cumulative += v.WeightPercentage
		if variantPct <= cumulative {
			return Result{Variant: v, Included: true}
		}
	}

	return Result{Variant: exp.Variants[0], Included: true, Fallback: true}
}
