package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"behaviorOpt/business/intervention"
	"behaviorOpt/business/statistics"
	"behaviorOpt/domain"
	"behaviorOpt/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrExperimentRunning       = errors.New("cannot update running experiment")
	ErrExperimentStarted       = errors.New("variants and traffic allocation cannot change after an experiment has started")
	ErrInvalidStatusTransition = errors.New("invalid experiment status transition")
	ErrInvalidWeights          = errors.New("variant weights must total 100%")
	ErrInvalidExperiment       = errors.New("invalid experiment")
)

const weightTolerance = 0.01

// ExperimentRepository contract interface
type ExperimentRepository interface {
	Create(ctx context.Context, exp *domain.Experiment) error
	FindByID(ctx context.Context, organizationID, id string) (domain.Experiment, error)
	FindAll(ctx context.Context, organizationID string, filter domain.ExperimentFilter) ([]domain.Experiment, error)
	Update(ctx context.Context, exp *domain.Experiment, replaceVariants bool) error
	UpdateStatus(ctx context.Context, exp *domain.Experiment) error
}

type ProjectRepository interface {
	FindByID(ctx context.Context, organizationID, id string) (domain.Project, error)
}

type ResultsRepository interface {
	FindByExperiment(ctx context.Context, experimentID string, from, to *time.Time) ([]domain.DailyVariantCount, error)
}

type VariantInput struct {
	Name             string
	Description      string
	WeightPercentage float64
	Configuration    map[string]any
}

type CreateExperimentInput struct {
	ProjectID         string
	Name              string
	Description       string
	Hypothesis        string
	Type              domain.ExperimentType
	InterventionType  domain.InterventionType
	SuccessMetrics    map[string]any
	TrafficAllocation *int
	TargetingRules    map[string]any
	Variants          []VariantInput
}

// UpdateExperimentInput carries only the fields being changed. A non-nil
// Variants slice replaces every variant; Variants and TrafficAllocation are
// only accepted while the experiment is a draft that never ran.
type UpdateExperimentInput struct {
	Name              *string
	Description       *string
	Hypothesis        *string
	TrafficAllocation *int
	SuccessMetrics    map[string]any
	TargetingRules    map[string]any
	Variants          []VariantInput
}

type experimentService struct {
	experimentRepo ExperimentRepository
	projectRepo    ProjectRepository
	resultsRepo    ResultsRepository
	now            func() time.Time
}

func NewExperimentService(experimentRepo ExperimentRepository, projectRepo ProjectRepository, resultsRepo ResultsRepository) *experimentService {
	return &experimentService{
		experimentRepo: experimentRepo,
		projectRepo:    projectRepo,
		resultsRepo:    resultsRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *experimentService) CreateExperiment(ctx context.Context, organizationID, userID string, in CreateExperimentInput) (domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Experiment{}, fmt.Errorf("context error: %w", err)
	}
	if len(in.Variants) < 2 {
		return domain.Experiment{}, fmt.Errorf("%w: at least two variants are required", ErrInvalidExperiment)
	}
	if !intervention.IsKnown(in.InterventionType) {
		return domain.Experiment{}, fmt.Errorf("%w: unknown intervention type %q", ErrInvalidExperiment, in.InterventionType)
	}

	allocation := 100
	if in.TrafficAllocation != nil {
		allocation = *in.TrafficAllocation
	}
	if allocation < 0 || allocation > 100 {
		return domain.Experiment{}, fmt.Errorf("%w: traffic allocation must be within 0-100", ErrInvalidExperiment)
	}

	if _, err := s.projectRepo.FindByID(ctx, organizationID, in.ProjectID); err != nil {
		logger.Error("Project lookup failed when creating experiment", "project_id", in.ProjectID, "error", err)
		return domain.Experiment{}, err
	}

	expType := in.Type
	if expType == "" {
		expType = domain.ExperimentTypeABTest
	}

	exp := domain.Experiment{
		ID:                uuid.NewString(),
		ProjectID:         in.ProjectID,
		Name:              in.Name,
		Description:       in.Description,
		Hypothesis:        in.Hypothesis,
		Type:              expType,
		Status:            domain.ExperimentStatusDraft,
		InterventionType:  in.InterventionType,
		SuccessMetrics:    in.SuccessMetrics,
		TrafficAllocation: allocation,
		TargetingRules:    in.TargetingRules,
		CreatedBy:         userID,
	}
	exp.Variants = buildVariants(exp.ID, exp.InterventionType, in.Variants)

	if err := s.experimentRepo.Create(ctx, &exp); err != nil {
		logger.Error("Failed to create experiment", "error", err)
		return domain.Experiment{}, err
	}

	logger.Info("Experiment created", "experiment_id", exp.ID, "project_id", exp.ProjectID, "variants", len(exp.Variants))
	return exp, nil
}

// buildVariants marks the first variant as control, names unnamed variants
// and splits weight evenly where none was given.
func buildVariants(experimentID string, it domain.InterventionType, inputs []VariantInput) []domain.Variant {
	variants := make([]domain.Variant, 0, len(inputs))
	for i, in := range inputs {
		name := in.Name
		if name == "" {
			if i == 0 {
				name = "Control"
			} else {
				name = fmt.Sprintf("Variant %d", i)
			}
		}

		weight := in.WeightPercentage
		if weight == 0 {
			weight = 100 / float64(len(inputs))
		}

		variants = append(variants, domain.Variant{
			ID:               uuid.NewString(),
			ExperimentID:     experimentID,
			Name:             name,
			Description:      in.Description,
			IsControl:        i == 0,
			Position:         i,
			WeightPercentage: weight,
			Configuration:    intervention.MergeConfig(it, in.Configuration),
		})
	}
	return variants
}

func (s *experimentService) ListExperiments(ctx context.Context, organizationID string, filter domain.ExperimentFilter) ([]domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return s.experimentRepo.FindAll(ctx, organizationID, filter)
}

func (s *experimentService) GetExperiment(ctx context.Context, organizationID, id string) (domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Experiment{}, fmt.Errorf("context error: %w", err)
	}
	return s.experimentRepo.FindByID(ctx, organizationID, id)
}

func (s *experimentService) UpdateExperiment(ctx context.Context, organizationID, id string, in UpdateExperimentInput) (domain.Experiment, error) {
	exp, err := s.GetExperiment(ctx, organizationID, id)
	if err != nil {
		return domain.Experiment{}, err
	}

	if exp.Status == domain.ExperimentStatusRunning {
		return domain.Experiment{}, ErrExperimentRunning
	}
	// bucketing and the recorded counters are keyed on these, so they are
	// fixed after the first start
	started := exp.Status != domain.ExperimentStatusDraft || exp.StartedAt != nil
	if started && (in.Variants != nil || in.TrafficAllocation != nil) {
		return domain.Experiment{}, ErrExperimentStarted
	}

	if in.Name != nil {
		exp.Name = *in.Name
	}
	if in.Description != nil {
		exp.Description = *in.Description
	}
	if in.Hypothesis != nil {
		exp.Hypothesis = *in.Hypothesis
	}
	if in.TrafficAllocation != nil {
		if *in.TrafficAllocation < 0 || *in.TrafficAllocation > 100 {
			return domain.Experiment{}, fmt.Errorf("%w: traffic allocation must be within 0-100", ErrInvalidExperiment)
		}
		exp.TrafficAllocation = *in.TrafficAllocation
	}
	if in.SuccessMetrics != nil {
		exp.SuccessMetrics = in.SuccessMetrics
	}
	if in.TargetingRules != nil {
		exp.TargetingRules = in.TargetingRules
	}

	replace := in.Variants != nil
	if replace {
		if len(in.Variants) < 2 {
			return domain.Experiment{}, fmt.Errorf("%w: at least two variants are required", ErrInvalidExperiment)
		}
		exp.Variants = buildVariants(exp.ID, exp.InterventionType, in.Variants)
	}

	if err := s.experimentRepo.Update(ctx, &exp, replace); err != nil {
		logger.Error("Failed to update experiment", "experiment_id", id, "error", err)
		return domain.Experiment{}, err
	}

	return exp, nil
}

func (s *experimentService) StartExperiment(ctx context.Context, organizationID, id string) (domain.Experiment, error) {
	exp, err := s.GetExperiment(ctx, organizationID, id)
	if err != nil {
		return domain.Experiment{}, err
	}

	if exp.Status != domain.ExperimentStatusDraft && exp.Status != domain.ExperimentStatusPaused {
		return domain.Experiment{}, fmt.Errorf("%w: experiment must be in draft or paused status to start", ErrInvalidStatusTransition)
	}

	if len(exp.Variants) == 0 || math.Abs(exp.TotalWeight()-100) > weightTolerance {
		return domain.Experiment{}, ErrInvalidWeights
	}
	for _, v := range exp.Variants {
		if v.WeightPercentage < 0 {
			return domain.Experiment{}, ErrInvalidWeights
		}
	}

	now := s.now()
	exp.Status = domain.ExperimentStatusRunning
	exp.StartedAt = &now

	if err := s.experimentRepo.UpdateStatus(ctx, &exp); err != nil {
		return domain.Experiment{}, err
	}

	logger.Info("Experiment started", "experiment_id", exp.ID)
	return exp, nil
}

func (s *experimentService) PauseExperiment(ctx context.Context, organizationID, id string) (domain.Experiment, error) {
	exp, err := s.GetExperiment(ctx, organizationID, id)
	if err != nil {
		return domain.Experiment{}, err
	}

	if exp.Status != domain.ExperimentStatusRunning {
		return domain.Experiment{}, fmt.Errorf("%w: only running experiments can be paused", ErrInvalidStatusTransition)
	}

	exp.Status = domain.ExperimentStatusPaused
	if err := s.experimentRepo.UpdateStatus(ctx, &exp); err != nil {
		return domain.Experiment{}, err
	}

	logger.Info("Experiment paused", "experiment_id", exp.ID)
	return exp, nil
}

func (s *experimentService) CompleteExperiment(ctx context.Context, organizationID, id string) (domain.Experiment, error) {
	exp, err := s.GetExperiment(ctx, organizationID, id)
	if err != nil {
		return domain.Experiment{}, err
	}

	if exp.Status == domain.ExperimentStatusCompleted {
		return domain.Experiment{}, fmt.Errorf("%w: experiment already completed", ErrInvalidStatusTransition)
	}

	now := s.now()
	exp.Status = domain.ExperimentStatusCompleted
	exp.CompletedAt = &now

	if err := s.experimentRepo.UpdateStatus(ctx, &exp); err != nil {
		return domain.Experiment{}, err
	}

	logger.Info("Experiment completed", "experiment_id", exp.ID)
	return exp, nil
}

// GetResults loads the daily counters in [from, to] (either bound optional)
// and derives the statistics from them.
func (s *experimentService) GetResults(ctx context.Context, organizationID, id string, from, to *time.Time) (domain.ExperimentReport, error) {
	exp, err := s.GetExperiment(ctx, organizationID, id)
	if err != nil {
		return domain.ExperimentReport{}, err
	}

	counts, err := s.resultsRepo.FindByExperiment(ctx, exp.ID, from, to)
	if err != nil {
		logger.Error("Failed to load experiment results", "experiment_id", id, "error", err)
		return domain.ExperimentReport{}, err
	}

	trends, err := statistics.DailyTrend(exp, counts)
	if err != nil {
		return domain.ExperimentReport{}, fmt.Errorf("failed to compute daily trend: %w", err)
	}

	return domain.ExperimentReport{
		Experiment: exp,
		Results:    counts,
		Statistics: statistics.ComputeStatistics(exp, counts),
		Trends:     trends,
	}, nil
}

func (s *experimentService) PlanSampleSize(baseline, mde float64) (int, error) {
	return statistics.RequiredSampleSize(baseline, mde)
}
