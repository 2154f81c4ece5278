package rest

import (
	"context"
	"errors"
	"net/http"

	"behaviorOpt/business/auth"
	"behaviorOpt/business/experiment"
	"behaviorOpt/business/statistics"
	"behaviorOpt/business/tracking"
	"behaviorOpt/domain"
	"behaviorOpt/internal/middleware"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrExperimentNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrOrganizationNotFound),
		errors.Is(err, tracking.ErrInvalidTrackingID):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidRefreshToken):
		return http.StatusUnauthorized
	case errors.Is(err, experiment.ErrExperimentRunning),
		errors.Is(err, experiment.ErrExperimentStarted),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrOrganizationTaken),
		errors.Is(err, experiment.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, experiment.ErrInvalidWeights),
		errors.Is(err, experiment.ErrInvalidExperiment),
		errors.Is(err, statistics.ErrZeroEffect),
		errors.Is(err, statistics.ErrInvalidRate),
		errors.Is(err, tracking.ErrBatchTooLarge),
		errors.Is(err, auth.ErrInvalidSignup):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(c echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal server error"
	}
	return c.JSON(code, ResponseError{Message: message})
}

func organizationID(c echo.Context) string {
	id, _ := c.Get(middleware.ContextOrganizationID).(string)
	return id
}

func userID(c echo.Context) string {
	id, _ := c.Get(middleware.ContextUserID).(string)
	return id
}
