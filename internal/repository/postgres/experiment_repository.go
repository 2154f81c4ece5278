package postgres

import (
	"context"
	"errors"
	"fmt"

	"behaviorOpt/domain"

	"gorm.io/gorm"
)

type ExperimentRepository struct {
	DB *gorm.DB
}

func NewExperimentRepository(db *gorm.DB) *ExperimentRepository {
	return &ExperimentRepository{
		DB: db,
	}
}

func orderedVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// scoped restricts experiments to those whose project belongs to organizationID.
func (r *ExperimentRepository) scoped(ctx context.Context, organizationID string) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Variants", orderedVariants).
		Joins("JOIN projects ON projects.id = experiments.project_id").
		Where("projects.organization_id = ?", organizationID)
}

func (r *ExperimentRepository) Create(ctx context.Context, exp *domain.Experiment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	// variants are inserted with the experiment
	if err := r.DB.WithContext(ctx).Create(exp).Error; err != nil {
		return fmt.Errorf("failed to create experiment: %w", err)
	}

	return nil
}

func (r *ExperimentRepository) FindByID(ctx context.Context, organizationID, id string) (domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Experiment{}, fmt.Errorf("context error: %w", err)
	}

	var exp domain.Experiment
	err := r.scoped(ctx, organizationID).Where("experiments.id = ?", id).First(&exp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Experiment{}, domain.ErrExperimentNotFound
		}
		return domain.Experiment{}, fmt.Errorf("failed to find experiment: %w", err)
	}

	return exp, nil
}

func (r *ExperimentRepository) FindAll(ctx context.Context, organizationID string, filter domain.ExperimentFilter) ([]domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := r.scoped(ctx, organizationID)
	if filter.ProjectID != "" {
		query = query.Where("experiments.project_id = ?", filter.ProjectID)
	}
	if filter.Status != "" {
		query = query.Where("experiments.status = ?", filter.Status)
	}

	var experiments []domain.Experiment
	if err := query.Order("experiments.created_at DESC").Find(&experiments).Error; err != nil {
		return nil, fmt.Errorf("failed to find experiments: %w", err)
	}

	return experiments, nil
}

func (r *ExperimentRepository) FindRunningByProject(ctx context.Context, projectID string) ([]domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var experiments []domain.Experiment
	err := r.DB.WithContext(ctx).
		Preload("Variants", orderedVariants).
		Where("project_id = ? AND status = ?", projectID, domain.ExperimentStatusRunning).
		Find(&experiments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find running experiments: %w", err)
	}

	return experiments, nil
}

func (r *ExperimentRepository) Update(ctx context.Context, exp *domain.Experiment, replaceVariants bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	// map updates so zero values such as a 0% allocation are written
	updateData := map[string]interface{}{
		"name":               exp.Name,
		"description":        exp.Description,
		"hypothesis":         exp.Hypothesis,
		"traffic_allocation": exp.TrafficAllocation,
		"success_metrics":    exp.SuccessMetrics,
		"targeting_rules":    exp.TargetingRules,
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Experiment{}).Where("id = ?", exp.ID).Updates(updateData)
		if result.Error != nil {
			return fmt.Errorf("failed to update experiment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrExperimentNotFound
		}

		if !replaceVariants {
			return nil
		}

		if err := tx.Where("experiment_id = ?", exp.ID).Delete(&domain.Variant{}).Error; err != nil {
			return fmt.Errorf("failed to delete variants: %w", err)
		}
		if err := tx.Create(&exp.Variants).Error; err != nil {
			return fmt.Errorf("failed to create variants: %w", err)
		}
		return nil
	})
}

func (r *ExperimentRepository) UpdateStatus(ctx context.Context, exp *domain.Experiment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"status":       exp.Status,
		"started_at":   exp.StartedAt,
		"completed_at": exp.CompletedAt,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Experiment{}).Where("id = ?", exp.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update experiment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrExperimentNotFound
	}

	return nil
}
