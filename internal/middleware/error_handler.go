package middleware

import (
	"errors"
	"net/http"

	"behaviorOpt/pkg/logger"

	jsonres "behaviorOpt/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that handlers returned instead of writing.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled error", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(code)
	} else {
		respErr = c.JSON(code, jsonres.Error(http.StatusText(code), message, nil))
	}
	if respErr != nil {
		logger.Error("Failed to write error response", "error", respErr)
	}
}
