package domain

import "time"

const DateLayout = "2006-01-02"

// DailyVariantCount is one row per (experiment, variant, day). Rows are only
// ever changed through an atomic upsert-increment.
type DailyVariantCount struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ExperimentID string    `gorm:"column:experiment_id;type:uuid;not null;uniqueIndex:idx_results_experiment_variant_date,priority:1" json:"experiment_id"`
	VariantID    string    `gorm:"column:variant_id;type:uuid;not null;uniqueIndex:idx_results_experiment_variant_date,priority:2" json:"variant_id"`
	Date         time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_results_experiment_variant_date,priority:3" json:"date"`
	UniqueUsers  int64     `gorm:"column:unique_users;not null;default:0" json:"unique_users"`
	Conversions  int64     `gorm:"column:conversions;not null;default:0" json:"conversions"`
}

func (DailyVariantCount) TableName() string {
	return "experiment_results"
}

// ConversionRate is derived, never stored.
func (d DailyVariantCount) ConversionRate() float64 {
	if d.UniqueUsers == 0 {
		return 0
	}
	return float64(d.Conversions) / float64(d.UniqueUsers)
}

// DayOf truncates t to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
