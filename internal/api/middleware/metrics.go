package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/observability/metrics"
)

// unmatchedPath labels requests that hit no route, keeping label
// cardinality bounded.
const unmatchedPath = "unmatched"

// NewRequestMetrics records every request into m by route pattern. A nil m
// disables recording.
func NewRequestMetrics(m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = unmatchedPath
			}
			m.RecordHTTPRequest(c.Request().Method, path, status, time.Since(start).Seconds())
			return err
		}
	}
}
