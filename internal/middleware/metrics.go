package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"behaviorOpt/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics observes handler latency by route template so ids do not explode
// label cardinality.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
