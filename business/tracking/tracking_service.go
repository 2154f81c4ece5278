package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"behaviorOpt/business/assignment"
	"behaviorOpt/domain"
	"behaviorOpt/pkg/logger"
	"behaviorOpt/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidTrackingID = errors.New("invalid tracking id")
	ErrBatchTooLarge     = errors.New("batch exceeds maximum size")
)

type ProjectRepository interface {
	FindByTrackingID(ctx context.Context, trackingID string) (domain.Project, error)
}

type ExperimentRepository interface {
	FindRunningByProject(ctx context.Context, projectID string) ([]domain.Experiment, error)
}

type EventRepository interface {
	SaveEvent(ctx context.Context, event *domain.AnalyticsEvent) error
	SaveEvents(ctx context.Context, events []domain.AnalyticsEvent) error
}

type ResultsRepository interface {
	Increment(ctx context.Context, experimentID, variantID string, date time.Time, uniqueUsers, conversions int64) error
}

// ExposureRepository remembers which users saw a variant on a given day.
type ExposureRepository interface {
	MarkExposed(ctx context.Context, experimentID, variantID string, date time.Time, userID string) (bool, error)
}

type EventInput struct {
	UserID     string
	EventType  string
	Properties map[string]any
	Context    map[string]any
	SessionID  string
	Timestamp  *time.Time
}

type TrackResult struct {
	EventID     string            `json:"event_id"`
	Assignments map[string]string `json:"assignments"`
}

type InterventionPayload struct {
	ExperimentID     string                  `json:"experiment_id"`
	VariantID        string                  `json:"variant_id"`
	VariantName      string                  `json:"variant_name"`
	InterventionType domain.InterventionType `json:"intervention_type"`
	Configuration    map[string]any          `json:"configuration"`
}

type AssignmentsResult struct {
	UserID        string                `json:"user_id"`
	Assignments   map[string]string     `json:"assignments"`
	Interventions []InterventionPayload `json:"interventions"`
}

type trackingService struct {
	projectRepo    ProjectRepository
	experimentRepo ExperimentRepository
	eventRepo      EventRepository
	resultsRepo    ResultsRepository
	exposureRepo   ExposureRepository
	maxBatchSize   int
	now            func() time.Time
}

func NewTrackingService(
	projectRepo ProjectRepository,
	experimentRepo ExperimentRepository,
	eventRepo EventRepository,
	resultsRepo ResultsRepository,
	exposureRepo ExposureRepository,
	maxBatchSize int,
) *trackingService {
	return &trackingService{
		projectRepo:    projectRepo,
		experimentRepo: experimentRepo,
		eventRepo:      eventRepo,
		resultsRepo:    resultsRepo,
		exposureRepo:   exposureRepo,
		maxBatchSize:   maxBatchSize,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *trackingService) resolveProject(ctx context.Context, trackingID string) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return domain.Project{}, fmt.Errorf("context error: %w", err)
	}

	project, err := s.projectRepo.FindByTrackingID(ctx, trackingID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return domain.Project{}, ErrInvalidTrackingID
	}
	if err != nil {
		return domain.Project{}, err
	}
	if !project.IsActive {
		return domain.Project{}, ErrInvalidTrackingID
	}
	return project, nil
}

type assigned struct {
	experiment domain.Experiment
	variant    domain.Variant
}

// assignAll buckets the user into every running experiment of the project and
// records first exposures of the day.
func (s *trackingService) assignAll(ctx context.Context, projectID, userID string, day time.Time) ([]assigned, error) {
	experiments, err := s.experimentRepo.FindRunningByProject(ctx, projectID)
	if err != nil {
		logger.Error("Failed to load running experiments", "project_id", projectID, "error", err)
		return nil, err
	}

	var out []assigned
	for _, exp := range experiments {
		if len(exp.Variants) == 0 {
			logger.Warn("Running experiment has no variants", "experiment_id", exp.ID)
			continue
		}

		res := assignment.Decide(userID, exp)
		switch {
		case !res.Included:
			metrics.AssignmentsTotal.WithLabelValues(exp.ID, metrics.OutcomeExcluded).Inc()
			continue
		case res.Fallback:
			logger.Warn("Variant weights did not cover bucket, using first variant",
				"experiment_id", exp.ID, "total_weight", exp.TotalWeight())
			metrics.AssignmentsTotal.WithLabelValues(exp.ID, metrics.OutcomeFallback).Inc()
		default:
			metrics.AssignmentsTotal.WithLabelValues(exp.ID, metrics.OutcomeAssigned).Inc()
		}

		out = append(out, assigned{experiment: exp, variant: res.Variant})
		s.recordExposure(ctx, exp.ID, res.Variant.ID, day, userID)
	}

	return out, nil
}

// recordExposure bumps unique users only the first time the user is seen on
// the variant that day. Failures are logged and do not fail the request.
func (s *trackingService) recordExposure(ctx context.Context, experimentID, variantID string, day time.Time, userID string) {
	first, err := s.exposureRepo.MarkExposed(ctx, experimentID, variantID, day, userID)
	if err != nil {
		logger.Error("Failed to record exposure", "experiment_id", experimentID, "variant_id", variantID, "error", err)
		return
	}
	if !first {
		return
	}

	if err := s.resultsRepo.Increment(ctx, experimentID, variantID, day, 1, 0); err != nil {
		logger.Error("Failed to increment unique users", "experiment_id", experimentID, "variant_id", variantID, "error", err)
		return
	}
	metrics.ExposuresTotal.WithLabelValues(experimentID, variantID).Inc()
}

func (s *trackingService) newEvent(project domain.Project, in EventInput) domain.AnalyticsEvent {
	ts := s.now()
	if in.Timestamp != nil {
		ts = in.Timestamp.UTC()
	}
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return domain.AnalyticsEvent{
		ID:             uuid.NewString(),
		OrganizationID: project.OrganizationID,
		ProjectID:      project.ID,
		UserID:         in.UserID,
		EventType:      in.EventType,
		Properties:     in.Properties,
		Context:        in.Context,
		SessionID:      sessionID,
		Timestamp:      ts,
	}
}

func (s *trackingService) Track(ctx context.Context, trackingID string, in EventInput) (TrackResult, error) {
	project, err := s.resolveProject(ctx, trackingID)
	if err != nil {
		return TrackResult{}, err
	}

	day := domain.DayOf(s.now())
	assignedTo, err := s.assignAll(ctx, project.ID, in.UserID, day)
	if err != nil {
		return TrackResult{}, err
	}

	event := s.newEvent(project, in)
	event.Assignments = make(map[string]any, len(assignedTo))
	result := TrackResult{Assignments: make(map[string]string, len(assignedTo))}
	for _, a := range assignedTo {
		event.Assignments[a.experiment.ID] = a.variant.ID
		result.Assignments[a.experiment.ID] = a.variant.ID
	}

	if err := s.eventRepo.SaveEvent(ctx, &event); err != nil {
		logger.Error("Failed to save tracking event", "project_id", project.ID, "error", err)
		return TrackResult{}, err
	}
	metrics.TrackingEventsTotal.WithLabelValues(event.EventType).Inc()

	if event.IsConversion() {
		for _, a := range assignedTo {
			if err := s.resultsRepo.Increment(ctx, a.experiment.ID, a.variant.ID, day, 0, 1); err != nil {
				logger.Error("Failed to increment conversions", "experiment_id", a.experiment.ID, "variant_id", a.variant.ID, "error", err)
				return TrackResult{}, err
			}
			metrics.ConversionsTotal.WithLabelValues(a.experiment.ID, a.variant.ID).Inc()
		}
	}

	result.EventID = event.ID
	return result, nil
}

// Batch stores raw events without assigning them to experiments.
func (s *trackingService) Batch(ctx context.Context, trackingID string, in []EventInput) (int, error) {
	if s.maxBatchSize > 0 && len(in) > s.maxBatchSize {
		return 0, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(in), s.maxBatchSize)
	}

	project, err := s.resolveProject(ctx, trackingID)
	if err != nil {
		return 0, err
	}
	if len(in) == 0 {
		return 0, nil
	}

	events := make([]domain.AnalyticsEvent, 0, len(in))
	for _, e := range in {
		events = append(events, s.newEvent(project, e))
	}

	if err := s.eventRepo.SaveEvents(ctx, events); err != nil {
		logger.Error("Failed to save tracking batch", "project_id", project.ID, "size", len(events), "error", err)
		return 0, err
	}
	for _, e := range events {
		metrics.TrackingEventsTotal.WithLabelValues(e.EventType).Inc()
	}

	return len(events), nil
}

func (s *trackingService) Assignments(ctx context.Context, trackingID, userID string) (AssignmentsResult, error) {
	project, err := s.resolveProject(ctx, trackingID)
	if err != nil {
		return AssignmentsResult{}, err
	}

	assignedTo, err := s.assignAll(ctx, project.ID, userID, domain.DayOf(s.now()))
	if err != nil {
		return AssignmentsResult{}, err
	}

	result := AssignmentsResult{
		UserID:        userID,
		Assignments:   make(map[string]string, len(assignedTo)),
		Interventions: make([]InterventionPayload, 0, len(assignedTo)),
	}
	for _, a := range assignedTo {
		result.Assignments[a.experiment.ID] = a.variant.ID
		result.Interventions = append(result.Interventions, InterventionPayload{
			ExperimentID:     a.experiment.ID,
			VariantID:        a.variant.ID,
			VariantName:      a.variant.Name,
			InterventionType: a.experiment.InterventionType,
			Configuration:    a.variant.Configuration,
		})
	}

	return result, nil
}
