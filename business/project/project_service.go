package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"behaviorOpt/domain"
	"behaviorOpt/pkg/logger"

	"github.com/google/uuid"
)

const trackingIDPrefix = "track_"

// ProjectRepository contract interface
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, organizationID, id string) (domain.Project, error)
	FindAll(ctx context.Context, organizationID string) ([]domain.Project, error)
}

type projectService struct {
	projectRepo ProjectRepository
}

func NewProjectService(projectRepo ProjectRepository) *projectService {
	return &projectService{
		projectRepo: projectRepo,
	}
}

// NewTrackingID returns a public key of the form track_xxxxxxxx.
func NewTrackingID() string {
	return trackingIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *projectService) GetAllProjects(ctx context.Context, organizationID string) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all projects")
		return nil, fmt.Errorf("context error: %w", err)
	}

	projects, err := s.projectRepo.FindAll(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to find all projects", err)
		return nil, err
	}

	return projects, nil
}

func (s *projectService) GetProjectByID(ctx context.Context, organizationID, id string) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get project by id")
		return domain.Project{}, fmt.Errorf("context error: %w", err)
	}

	return s.projectRepo.FindByID(ctx, organizationID, id)
}

func (s *projectService) CreateProject(ctx context.Context, organizationID, name, projectDomain string) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create project")
		return domain.Project{}, fmt.Errorf("context error: %w", err)
	}

	if name == "" || projectDomain == "" {
		return domain.Project{}, errors.New("project name and domain are required")
	}

	project := domain.Project{
		ID:             uuid.NewString(),
		Name:           name,
		Domain:         projectDomain,
		TrackingID:     NewTrackingID(),
		OrganizationID: organizationID,
		IsActive:       true,
	}

	if err := s.projectRepo.Create(ctx, &project); err != nil {
		logger.Error("failed to create new project", err)
		return domain.Project{}, fmt.Errorf("failed to create project: %w", err)
	}

	logger.Info("Project created", "project_id", project.ID, "tracking_id", project.TrackingID)
	return project, nil
}
