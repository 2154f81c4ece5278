package postgres

import (
	"context"
	"fmt"
	"time"

	"behaviorOpt/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExperimentResultsRepository struct {
	DB *gorm.DB
}

func NewExperimentResultsRepository(db *gorm.DB) *ExperimentResultsRepository {
	return &ExperimentResultsRepository{
		DB: db,
	}
}

const incrementResultsSQL = `INSERT INTO experiment_results (id, experiment_id, variant_id, date, unique_users, conversions)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (experiment_id, variant_id, date) DO UPDATE SET
	unique_users = experiment_results.unique_users + EXCLUDED.unique_users,
	conversions = experiment_results.conversions + EXCLUDED.conversions`

// Increment adds to the day's counters in a single statement, creating the row
// on first use. Concurrent increments never lose updates.
func (r *ExperimentResultsRepository) Increment(ctx context.Context, experimentID, variantID string, date time.Time, uniqueUsers, conversions int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Exec(incrementResultsSQL,
		uuid.NewString(), experimentID, variantID, domain.DayOf(date), uniqueUsers, conversions,
	).Error
	if err != nil {
		return fmt.Errorf("failed to increment experiment results: %w", err)
	}

	return nil
}

// FindByExperiment returns rows newest first. A nil bound is open.
func (r *ExperimentResultsRepository) FindByExperiment(ctx context.Context, experimentID string, from, to *time.Time) ([]domain.DailyVariantCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Where("experiment_id = ?", experimentID)
	if from != nil {
		query = query.Where("date >= ?", domain.DayOf(*from))
	}
	if to != nil {
		query = query.Where("date <= ?", domain.DayOf(*to))
	}

	var rows []domain.DailyVariantCount
	if err := query.Order("date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find experiment results: %w", err)
	}

	return rows, nil
}
