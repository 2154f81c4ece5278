package postgres

import (
	"context"
	"fmt"

	"behaviorOpt/domain"

	"gorm.io/gorm"
)

const eventInsertBatchSize = 100

type AnalyticsEventRepository struct {
	DB *gorm.DB
}

func NewAnalyticsEventRepository(db *gorm.DB) *AnalyticsEventRepository {
	return &AnalyticsEventRepository{
		DB: db,
	}
}

func (r *AnalyticsEventRepository) SaveEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to save analytics event: %w", err)
	}

	return nil
}

func (r *AnalyticsEventRepository) SaveEvents(ctx context.Context, events []domain.AnalyticsEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).CreateInBatches(&events, eventInsertBatchSize).Error; err != nil {
		return fmt.Errorf("failed to save analytics events: %w", err)
	}

	return nil
}
