package statistics

import (
	"sort"

	"behaviorOpt/domain"

	"github.com/montanaflynn/stats"
)

// DailyTrend lays out each variant's daily conversion rate in date order,
// with the mean and sample standard deviation of those daily rates. Days with
// no users count as a zero rate.
func DailyTrend(exp domain.Experiment, counts []domain.DailyVariantCount) ([]domain.VariantTrend, error) {
	type dayKey struct {
		variantID string
		date      string
	}
	byDay := make(map[dayKey]*domain.DailyRate)
	for _, c := range counts {
		k := dayKey{variantID: c.VariantID, date: c.Date.UTC().Format(domain.DateLayout)}
		d, ok := byDay[k]
		if !ok {
			d = &domain.DailyRate{Date: k.date}
			byDay[k] = d
		}
		d.UniqueUsers += c.UniqueUsers
		d.Conversions += c.Conversions
	}

	trends := make([]domain.VariantTrend, 0, len(exp.Variants))
	for _, v := range exp.Variants {
		trend := domain.VariantTrend{VariantID: v.ID, Days: []domain.DailyRate{}}
		for k, d := range byDay {
			if k.variantID != v.ID {
				continue
			}
			d.ConversionRate = conversionRate(d.Conversions, d.UniqueUsers)
			trend.Days = append(trend.Days, *d)
		}
		sort.Slice(trend.Days, func(i, j int) bool {
			return trend.Days[i].Date < trend.Days[j].Date
		})

		rates := make(stats.Float64Data, 0, len(trend.Days))
		for _, d := range trend.Days {
			rates = append(rates, d.ConversionRate)
		}

		if len(rates) > 0 {
			mean, err := stats.Mean(rates)
			if err != nil {
				return nil, err
			}
			trend.MeanRate = mean
		}
		if len(rates) > 1 {
			stdev, err := stats.StandardDeviationSample(rates)
			if err != nil {
				return nil, err
			}
			trend.StdDevRate = stdev
		}

		trends = append(trends, trend)
	}

	return trends, nil
}
