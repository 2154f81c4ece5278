package postgres

import (
	"context"
	"errors"
	"fmt"

	"behaviorOpt/domain"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{
		DB: db,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, organizationID, id string) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return domain.Project{}, fmt.Errorf("context error: %w", err)
	}

	var project domain.Project
	err := r.DB.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, domain.ErrProjectNotFound
		}
		return domain.Project{}, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// FindByTrackingID is the unauthenticated lookup used by the tracking
// endpoints; it ignores the organization.
func (r *ProjectRepository) FindByTrackingID(ctx context.Context, trackingID string) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return domain.Project{}, fmt.Errorf("context error: %w", err)
	}

	var project domain.Project
	err := r.DB.WithContext(ctx).Where("tracking_id = ?", trackingID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, domain.ErrProjectNotFound
		}
		return domain.Project{}, fmt.Errorf("failed to find project by tracking id: %w", err)
	}

	return project, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context, organizationID string) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var projects []domain.Project
	err := r.DB.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}

	return projects, nil
}
