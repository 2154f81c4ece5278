package statistics

import "behaviorOpt/domain"

type totals struct {
	users       int64
	conversions int64
}

func aggregate(counts []domain.DailyVariantCount) map[string]totals {
	byVariant := make(map[string]totals)
	for _, c := range counts {
		t := byVariant[c.VariantID]
		t.users += c.UniqueUsers
		t.conversions += c.Conversions
		byVariant[c.VariantID] = t
	}
	return byVariant
}

// ComputeStatistics returns one result per variant, in the experiment's
// variant order. Counts are summed per variant regardless of date; callers
// restrict the date range before calling. Rows for unknown variants are
// ignored.
func ComputeStatistics(exp domain.Experiment, counts []domain.DailyVariantCount) []domain.StatisticalResult {
	byVariant := aggregate(counts)

	results := make([]domain.StatisticalResult, 0, len(exp.Variants))
	for _, v := range exp.Variants {
		t := byVariant[v.ID]
		results = append(results, domain.StatisticalResult{
			VariantID:          v.ID,
			VariantName:        v.Name,
			SampleSize:         t.users,
			Conversions:        t.conversions,
			ConversionRate:     conversionRate(t.conversions, t.users),
			ConfidenceInterval: WilsonInterval(t.conversions, t.users),
		})
	}

	control, ok := exp.Control()
	if !ok {
		return results
	}

	var controlStats domain.StatisticalResult
	for _, r := range results {
		if r.VariantID == control.ID {
			controlStats = r
			break
		}
	}

	for i := range results {
		r := &results[i]
		if r.VariantID == control.ID {
			continue
		}

		p := PValue(r.Conversions, r.SampleSize, controlStats.Conversions, controlStats.SampleSize)
		sig := IsSignificant(p)
		up := Uplift(r.ConversionRate, controlStats.ConversionRate)

		r.PValue = &p
		r.IsSignificant = &sig
		r.Uplift = &up
	}

	return results
}
