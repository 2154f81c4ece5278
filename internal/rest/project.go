package rest

import (
	"context"
	"net/http"
	"time"

	"behaviorOpt/domain"
	"behaviorOpt/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProjectService interface {
	GetAllProjects(ctx context.Context, organizationID string) ([]domain.Project, error)
	GetProjectByID(ctx context.Context, organizationID, id string) (domain.Project, error)
	CreateProject(ctx context.Context, organizationID, name, projectDomain string) (domain.Project, error)
}

type ProjectHandler struct {
	projectService ProjectService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProjectHandler(projectService ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateProjectRequest struct {
	Name   string `json:"name" validate:"required"`
	Domain string `json:"domain" validate:"required"`
}

func (h *ProjectHandler) GetAllProjects(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	projects, err := h.projectService.GetAllProjects(ctx, organizationID(c))
	if err != nil {
		logger.Error("Failed to find all projects", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(projects))
}

func (h *ProjectHandler) GetProjectByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	project, err := h.projectService.GetProjectByID(ctx, organizationID(c), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(project))
}

func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	project, err := h.projectService.CreateProject(ctx, organizationID(c), req.Name, req.Domain)
	if err != nil {
		logger.Error("Failed to create project", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(project))
}
