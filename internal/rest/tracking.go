package rest

import (
	"context"
	"net/http"
	"time"

	"behaviorOpt/business/tracking"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// TrackingService backs the public endpoints called by the client snippet.
type TrackingService interface {
	Track(ctx context.Context, trackingID string, in tracking.EventInput) (tracking.TrackResult, error)
	Batch(ctx context.Context, trackingID string, in []tracking.EventInput) (int, error)
	Assignments(ctx context.Context, trackingID, userID string) (tracking.AssignmentsResult, error)
}

type TrackingHandler struct {
	trackingService TrackingService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewTrackingHandler(trackingService TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
		validator:       validator.New(),
		timeout:         5 * time.Second,
	}
}

type TrackEventRequest struct {
	UserID     string         `json:"user_id" validate:"required"`
	EventType  string         `json:"event_type" validate:"required"`
	Properties map[string]any `json:"properties"`
	Context    map[string]any `json:"context"`
	SessionID  string         `json:"session_id"`
	Timestamp  *time.Time     `json:"timestamp"`
}

type BatchRequest struct {
	Events []TrackEventRequest `json:"events" validate:"required,dive"`
}

type AssignmentsRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type BatchResponse struct {
	Accepted int `json:"accepted"`
}

func (r TrackEventRequest) toInput() tracking.EventInput {
	return tracking.EventInput{
		UserID:     r.UserID,
		EventType:  r.EventType,
		Properties: r.Properties,
		Context:    r.Context,
		SessionID:  r.SessionID,
		Timestamp:  r.Timestamp,
	}
}

func (h *TrackingHandler) Track(c echo.Context) error {
	var req TrackEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.trackingService.Track(ctx, c.Param("trackingId"), req.toInput())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

func (h *TrackingHandler) Batch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	events := make([]tracking.EventInput, 0, len(req.Events))
	for _, e := range req.Events {
		events = append(events, e.toInput())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	n, err := h.trackingService.Batch(ctx, c.Param("trackingId"), events)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(BatchResponse{Accepted: n}))
}

func (h *TrackingHandler) Assignments(c echo.Context) error {
	var req AssignmentsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.trackingService.Assignments(ctx, c.Param("trackingId"), req.UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}
