package postgres

import (
	"context"
	"errors"
	"fmt"

	"behaviorOpt/domain"

	"gorm.io/gorm"
)

type OrganizationRepository struct {
	DB *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{
		DB: db,
	}
}

// CreateWithOwner inserts the organization and its first user in one
// transaction.
func (r *OrganizationRepository) CreateWithOwner(ctx context.Context, org *domain.Organization, owner *domain.User) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}

		owner.OrganizationID = org.ID
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("failed to create owner: %w", err)
		}

		return nil
	})
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (domain.Organization, error) {
	if err := ctx.Err(); err != nil {
		return domain.Organization{}, fmt.Errorf("context error: %w", err)
	}

	var org domain.Organization
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Organization{}, domain.ErrOrganizationNotFound
		}
		return domain.Organization{}, fmt.Errorf("failed to find organization: %w", err)
	}

	return org, nil
}

func (r *OrganizationRepository) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Organization{}).Where("subdomain = ?", subdomain).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check subdomain: %w", err)
	}

	return count > 0, nil
}
