package rest

import (
	"context"
	"net/http"
	"time"

	"behaviorOpt/business/experiment"
	"behaviorOpt/domain"
	"behaviorOpt/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ExperimentService interface {
	CreateExperiment(ctx context.Context, organizationID, userID string, in experiment.CreateExperimentInput) (domain.Experiment, error)
	ListExperiments(ctx context.Context, organizationID string, filter domain.ExperimentFilter) ([]domain.Experiment, error)
	GetExperiment(ctx context.Context, organizationID, id string) (domain.Experiment, error)
	UpdateExperiment(ctx context.Context, organizationID, id string, in experiment.UpdateExperimentInput) (domain.Experiment, error)
	StartExperiment(ctx context.Context, organizationID, id string) (domain.Experiment, error)
	PauseExperiment(ctx context.Context, organizationID, id string) (domain.Experiment, error)
	CompleteExperiment(ctx context.Context, organizationID, id string) (domain.Experiment, error)
	GetResults(ctx context.Context, organizationID, id string, from, to *time.Time) (domain.ExperimentReport, error)
	PlanSampleSize(baseline, mde float64) (int, error)
}

type ExperimentHandler struct {
	experimentService ExperimentService
	validator         *validator.Validate
	timeout           time.Duration
}

func NewExperimentHandler(experimentService ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{
		experimentService: experimentService,
		validator:         validator.New(),
		timeout:           10 * time.Second,
	}
}

type VariantRequest struct {
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	WeightPercentage float64        `json:"weight_percentage" validate:"min=0,max=100"`
	Configuration    map[string]any `json:"configuration"`
}

type CreateExperimentRequest struct {
	ProjectID         string           `json:"project_id" validate:"required"`
	Name              string           `json:"name" validate:"required"`
	Description       string           `json:"description"`
	Hypothesis        string           `json:"hypothesis" validate:"required"`
	Type              string           `json:"type" validate:"omitempty,oneof=ab_test multivariate"`
	InterventionType  string           `json:"intervention_type" validate:"required"`
	SuccessMetrics    map[string]any   `json:"success_metrics"`
	TrafficAllocation *int             `json:"traffic_allocation" validate:"omitempty,min=0,max=100"`
	TargetingRules    map[string]any   `json:"targeting_rules"`
	Variants          []VariantRequest `json:"variants" validate:"required,min=2,dive"`
}

type UpdateExperimentRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1"`
	Description       *string          `json:"description"`
	Hypothesis        *string          `json:"hypothesis" validate:"omitempty,min=1"`
	TrafficAllocation *int             `json:"traffic_allocation" validate:"omitempty,min=0,max=100"`
	SuccessMetrics    map[string]any   `json:"success_metrics"`
	TargetingRules    map[string]any   `json:"targeting_rules"`
	Variants          []VariantRequest `json:"variants" validate:"omitempty,min=2,dive"`
}

type SampleSizeQuery struct {
	Baseline float64 `query:"baseline" validate:"gt=0,lt=1"`
	MDE      float64 `query:"mde" validate:"required"`
}

type SampleSizeResponse struct {
	Baseline             float64 `json:"baseline"`
	MDE                  float64 `json:"mde"`
	SampleSizePerVariant int     `json:"sample_size_per_variant"`
}

func toVariantInputs(reqs []VariantRequest) []experiment.VariantInput {
	if reqs == nil {
		return nil
	}
	out := make([]experiment.VariantInput, 0, len(reqs))
	for _, v := range reqs {
		out = append(out, experiment.VariantInput{
			Name:             v.Name,
			Description:      v.Description,
			WeightPercentage: v.WeightPercentage,
			Configuration:    v.Configuration,
		})
	}
	return out
}

func (h *ExperimentHandler) ListExperiments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	filter := domain.ExperimentFilter{
		ProjectID: c.QueryParam("project_id"),
		Status:    domain.ExperimentStatus(c.QueryParam("status")),
	}

	experiments, err := h.experimentService.ListExperiments(ctx, organizationID(c), filter)
	if err != nil {
		logger.Error("Failed to list experiments", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(experiments))
}

func (h *ExperimentHandler) GetExperiment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	exp, err := h.experimentService.GetExperiment(ctx, organizationID(c), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(exp))
}

func (h *ExperimentHandler) CreateExperiment(c echo.Context) error {
	var req CreateExperimentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	exp, err := h.experimentService.CreateExperiment(ctx, organizationID(c), userID(c), experiment.CreateExperimentInput{
		ProjectID:         req.ProjectID,
		Name:              req.Name,
		Description:       req.Description,
		Hypothesis:        req.Hypothesis,
		Type:              domain.ExperimentType(req.Type),
		InterventionType:  domain.InterventionType(req.InterventionType),
		SuccessMetrics:    req.SuccessMetrics,
		TrafficAllocation: req.TrafficAllocation,
		TargetingRules:    req.TargetingRules,
		Variants:          toVariantInputs(req.Variants),
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(exp))
}

func (h *ExperimentHandler) UpdateExperiment(c echo.Context) error {
	var req UpdateExperimentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	exp, err := h.experimentService.UpdateExperiment(ctx, organizationID(c), c.Param("id"), experiment.UpdateExperimentInput{
		Name:              req.Name,
		Description:       req.Description,
		Hypothesis:        req.Hypothesis,
		TrafficAllocation: req.TrafficAllocation,
		SuccessMetrics:    req.SuccessMetrics,
		TargetingRules:    req.TargetingRules,
		Variants:          toVariantInputs(req.Variants),
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(exp))
}

type transition func(ctx context.Context, organizationID, id string) (domain.Experiment, error)

func (h *ExperimentHandler) changeStatus(c echo.Context, fn transition) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	exp, err := fn(ctx, organizationID(c), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(exp))
}

func (h *ExperimentHandler) StartExperiment(c echo.Context) error {
	return h.changeStatus(c, h.experimentService.StartExperiment)
}

func (h *ExperimentHandler) PauseExperiment(c echo.Context) error {
	return h.changeStatus(c, h.experimentService.PauseExperiment)
}

func (h *ExperimentHandler) CompleteExperiment(c echo.Context) error {
	return h.changeStatus(c, h.experimentService.CompleteExperiment)
}

// parseDay reads an optional YYYY-MM-DD query parameter.
func parseDay(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *ExperimentHandler) GetResults(c echo.Context) error {
	from, err := parseDay(c, "start_date")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "start_date must be YYYY-MM-DD"})
	}
	to, err := parseDay(c, "end_date")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "end_date must be YYYY-MM-DD"})
	}
	if from != nil && to != nil && to.Before(*from) {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "end_date is before start_date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.experimentService.GetResults(ctx, organizationID(c), c.Param("id"), from, to)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(report))
}

func (h *ExperimentHandler) SampleSize(c echo.Context) error {
	var q SampleSizeQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	n, err := h.experimentService.PlanSampleSize(q.Baseline, q.MDE)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(SampleSizeResponse{
		Baseline:             q.Baseline,
		MDE:                  q.MDE,
		SampleSizePerVariant: n,
	}))
}
