package domain

type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// StatisticalResult is recomputed on demand from daily counts. PValue,
// IsSignificant and Uplift are nil for the control and for experiments
// without a control.
type StatisticalResult struct {
	VariantID          string             `json:"variant_id"`
	VariantName        string             `json:"variant_name"`
	SampleSize         int64              `json:"sample_size"`
	Conversions        int64              `json:"conversions"`
	ConversionRate     float64            `json:"conversion_rate"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	PValue             *float64           `json:"p_value,omitempty"`
	IsSignificant      *bool              `json:"is_significant,omitempty"`
	Uplift             *float64           `json:"uplift,omitempty"`
}

type DailyRate struct {
	Date           string  `json:"date"`
	UniqueUsers    int64   `json:"unique_users"`
	Conversions    int64   `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
}

type VariantTrend struct {
	VariantID  string      `json:"variant_id"`
	Days       []DailyRate `json:"days"`
	MeanRate   float64     `json:"mean_rate"`
	StdDevRate float64     `json:"std_dev_rate"`
}

type ExperimentReport struct {
	Experiment Experiment          `json:"experiment"`
	Results    []DailyVariantCount `json:"results"`
	Statistics []StatisticalResult `json:"statistics"`
	Trends     []VariantTrend      `json:"trends"`
}
