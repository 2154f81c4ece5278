package statistics

import (
	"math"
	"testing"
	"time"

	"behaviorOpt/domain"

	"github.com/stretchr/testify/require"
)

var day1 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func controlTreatment() domain.Experiment {
	return domain.Experiment{
		ID:                "exp-1",
		TrafficAllocation: 100,
		Variants: []domain.Variant{
			{ID: "control", Name: "Control", IsControl: true, WeightPercentage: 50},
			{ID: "treatment", Name: "Variant 1", WeightPercentage: 50},
		},
	}
}

func TestNormalCDF(t *testing.T) {
	require.InDelta(t, 0.5, NormalCDF(0), 1e-7)
	require.InDelta(t, 0.975002, NormalCDF(1.96), 1e-6)
	require.InDelta(t, 0.024998, NormalCDF(-1.96), 1e-6)
	require.InDelta(t, 1.0, NormalCDF(8), 1e-7)
	require.InDelta(t, 1.0, NormalCDF(1.3)+NormalCDF(-1.3), 1e-7)
}

func TestWilsonInterval(t *testing.T) {
	t.Run("half", func(t *testing.T) {
		ci := WilsonInterval(50, 100)
		require.InDelta(t, 0.404, ci.Lower, 1e-3)
		require.InDelta(t, 0.596, ci.Upper, 1e-3)
		require.InDelta(t, 0.4038298, ci.Lower, 1e-6)
		require.InDelta(t, 0.5961702, ci.Upper, 1e-6)
	})

	t.Run("zero trials", func(t *testing.T) {
		require.Equal(t, domain.ConfidenceInterval{Lower: 0, Upper: 0}, WilsonInterval(0, 0))
	})

	t.Run("stays within bounds at extremes", func(t *testing.T) {
		none := WilsonInterval(0, 10)
		require.InDelta(t, 0, none.Lower, 1e-12)
		require.GreaterOrEqual(t, none.Lower, float64(0))
		require.InDelta(t, 0.2775402, none.Upper, 1e-6)

		all := WilsonInterval(10, 10)
		require.InDelta(t, 0.7224598, all.Lower, 1e-6)
		require.InDelta(t, 1, all.Upper, 1e-12)
		require.LessOrEqual(t, all.Upper, float64(1))
	})
}

func TestPValue(t *testing.T) {
	t.Run("identical proportions", func(t *testing.T) {
		p := PValue(50, 100, 50, 100)
		require.InDelta(t, 1.0, p, 1e-6)
		require.False(t, IsSignificant(p))
	})

	t.Run("known significant difference", func(t *testing.T) {
		p := PValue(120, 1000, 200, 1000)
		require.Less(t, p, 0.05)
		require.True(t, IsSignificant(p))
		require.InDelta(t, 1.0650e-6, p, 1e-8)
		require.InDelta(t, 66.7, Uplift(0.2, 0.12), 0.05)
	})

	t.Run("symmetric in argument order", func(t *testing.T) {
		require.Equal(t, PValue(130, 1000, 100, 1000), PValue(100, 1000, 130, 1000))
	})

	t.Run("zero standard error", func(t *testing.T) {
		require.Equal(t, float64(1), PValue(0, 100, 0, 100))
		require.Equal(t, float64(1), PValue(100, 100, 100, 100))
	})

	t.Run("empty group", func(t *testing.T) {
		p := PValue(10, 100, 0, 0)
		require.Equal(t, float64(1), p)
		require.False(t, math.IsNaN(p))
	})
}

func TestUplift(t *testing.T) {
	require.InDelta(t, 30.0, Uplift(0.13, 0.10), 1e-9)
	require.InDelta(t, -50.0, Uplift(0.05, 0.10), 1e-9)
	require.Equal(t, float64(0), Uplift(0.2, 0))
}

func TestRequiredSampleSize(t *testing.T) {
	t.Run("baseline 10% mde 20%", func(t *testing.T) {
		// pBar = 0.11, 2*0.11*0.89*2.8^2 / 0.02^2 = 3837.68
		n, err := RequiredSampleSize(0.10, 0.20)
		require.NoError(t, err)
		require.Equal(t, 3838, n)
	})

	t.Run("baseline 5% mde 10%", func(t *testing.T) {
		n, err := RequiredSampleSize(0.05, 0.10)
		require.NoError(t, err)
		require.Equal(t, 31200, n)
	})

	t.Run("zero effect fails", func(t *testing.T) {
		_, err := RequiredSampleSize(0.10, 0)
		require.ErrorIs(t, err, ErrZeroEffect)
	})

	t.Run("zero baseline fails", func(t *testing.T) {
		_, err := RequiredSampleSize(0, 0.5)
		require.ErrorIs(t, err, ErrZeroEffect)
	})

	t.Run("target rate outside the unit interval fails", func(t *testing.T) {
		// 0.9 * 1.5 = 1.35
		n, err := RequiredSampleSize(0.9, 0.5)
		require.ErrorIs(t, err, ErrInvalidRate)
		require.Zero(t, n)

		// 0.2 * (1 - 1.5) = -0.1
		_, err = RequiredSampleSize(0.2, -1.5)
		require.ErrorIs(t, err, ErrInvalidRate)

		_, err = RequiredSampleSize(0.5, 1)
		require.ErrorIs(t, err, ErrInvalidRate)
	})

	t.Run("non finite input fails", func(t *testing.T) {
		n, err := RequiredSampleSize(math.NaN(), 0.2)
		require.ErrorIs(t, err, ErrInvalidRate)
		require.Zero(t, n)

		_, err = RequiredSampleSize(0.1, math.Inf(1))
		require.ErrorIs(t, err, ErrInvalidRate)
	})

	t.Run("negative lift within range", func(t *testing.T) {
		n, err := RequiredSampleSize(0.10, -0.20)
		require.NoError(t, err)
		require.Positive(t, n)
	})
}

func TestComputeStatistics(t *testing.T) {
	t.Run("end to end", func(t *testing.T) {
		exp := controlTreatment()
		counts := []domain.DailyVariantCount{
			{ExperimentID: "exp-1", VariantID: "control", Date: day1, UniqueUsers: 1000, Conversions: 100},
			{ExperimentID: "exp-1", VariantID: "treatment", Date: day1, UniqueUsers: 1000, Conversions: 130},
		}

		results := ComputeStatistics(exp, counts)
		require.Len(t, results, 2)

		control := results[0]
		require.Equal(t, "control", control.VariantID)
		require.Equal(t, "Control", control.VariantName)
		require.Equal(t, int64(1000), control.SampleSize)
		require.InDelta(t, 0.10, control.ConversionRate, 1e-12)
		require.Nil(t, control.PValue)
		require.Nil(t, control.IsSignificant)
		require.Nil(t, control.Uplift)
		require.InDelta(t, 0.0829092, control.ConfidenceInterval.Lower, 1e-6)
		require.InDelta(t, 0.1201524, control.ConfidenceInterval.Upper, 1e-6)

		treatment := results[1]
		require.Equal(t, "treatment", treatment.VariantID)
		require.InDelta(t, 0.13, treatment.ConversionRate, 1e-12)
		require.NotNil(t, treatment.PValue)
		require.InDelta(t, 0.0354883, *treatment.PValue, 1e-4)
		require.True(t, *treatment.IsSignificant)
		require.InDelta(t, 30.0, *treatment.Uplift, 1e-9)
	})

	t.Run("sums across days and ignores unknown variants", func(t *testing.T) {
		exp := controlTreatment()
		counts := []domain.DailyVariantCount{
			{VariantID: "control", Date: day1, UniqueUsers: 400, Conversions: 40},
			{VariantID: "control", Date: day1.AddDate(0, 0, 1), UniqueUsers: 600, Conversions: 60},
			{VariantID: "treatment", Date: day1, UniqueUsers: 500, Conversions: 50},
			{VariantID: "deleted-variant", Date: day1, UniqueUsers: 999, Conversions: 999},
		}

		results := ComputeStatistics(exp, counts)
		require.Equal(t, int64(1000), results[0].SampleSize)
		require.Equal(t, int64(100), results[0].Conversions)
		require.Equal(t, int64(500), results[1].SampleSize)
		require.InDelta(t, 0.0, *results[1].Uplift, 1e-9)
	})

	t.Run("no control yields rates only", func(t *testing.T) {
		exp := controlTreatment()
		exp.Variants[0].IsControl = false

		results := ComputeStatistics(exp, []domain.DailyVariantCount{
			{VariantID: "control", UniqueUsers: 10, Conversions: 1},
			{VariantID: "treatment", UniqueUsers: 10, Conversions: 5},
		})
		for _, r := range results {
			require.Nil(t, r.PValue)
			require.Nil(t, r.IsSignificant)
			require.Nil(t, r.Uplift)
		}
		require.InDelta(t, 0.5, results[1].ConversionRate, 1e-12)
	})

	t.Run("no data", func(t *testing.T) {
		results := ComputeStatistics(controlTreatment(), nil)
		require.Len(t, results, 2)
		for _, r := range results {
			require.Equal(t, float64(0), r.ConversionRate)
			require.Equal(t, domain.ConfidenceInterval{}, r.ConfidenceInterval)
		}
		require.Equal(t, float64(1), *results[1].PValue)
		require.False(t, *results[1].IsSignificant)
		require.Equal(t, float64(0), *results[1].Uplift)
	})

	t.Run("garbage in is reported faithfully", func(t *testing.T) {
		results := ComputeStatistics(controlTreatment(), []domain.DailyVariantCount{
			{VariantID: "control", UniqueUsers: 10, Conversions: 20},
		})
		require.InDelta(t, 2.0, results[0].ConversionRate, 1e-12)
		require.False(t, math.IsNaN(results[0].ConfidenceInterval.Lower))
		require.False(t, math.IsNaN(results[0].ConfidenceInterval.Upper))
	})

	t.Run("repeatable", func(t *testing.T) {
		counts := []domain.DailyVariantCount{
			{VariantID: "control", UniqueUsers: 1000, Conversions: 100},
			{VariantID: "treatment", UniqueUsers: 1000, Conversions: 130},
		}
		require.Equal(t, ComputeStatistics(controlTreatment(), counts), ComputeStatistics(controlTreatment(), counts))
	})
}

func TestDailyTrend(t *testing.T) {
	exp := controlTreatment()
	counts := []domain.DailyVariantCount{
		{VariantID: "control", Date: day1.AddDate(0, 0, 1), UniqueUsers: 200, Conversions: 30},
		{VariantID: "control", Date: day1, UniqueUsers: 1000, Conversions: 100},
		{VariantID: "treatment", Date: day1, UniqueUsers: 50, Conversions: 5},
	}

	trends, err := DailyTrend(exp, counts)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	control := trends[0]
	require.Equal(t, "control", control.VariantID)
	require.Len(t, control.Days, 2)
	require.Equal(t, "2026-03-01", control.Days[0].Date)
	require.Equal(t, "2026-03-02", control.Days[1].Date)
	require.InDelta(t, 0.125, control.MeanRate, 1e-12)
	require.InDelta(t, 0.0353553, control.StdDevRate, 1e-6)

	treatment := trends[1]
	require.Len(t, treatment.Days, 1)
	require.InDelta(t, 0.1, treatment.MeanRate, 1e-12)
	require.Equal(t, float64(0), treatment.StdDevRate)
}
