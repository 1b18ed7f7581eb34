package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: uuid.NewString()[:8],
	}
}

// statusFor maps an error category onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.IsCategory(err, errors.CategoryNotFound):
		return http.StatusNotFound
	case errors.IsCategory(err, errors.CategoryValidation):
		return http.StatusUnprocessableEntity
	case errors.IsCategory(err, errors.CategoryState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes err as an ErrorResponse. Server errors are logged.
func (s *Server) HandleError(c echo.Context, err error, message string) error {
	code := statusFor(err)
	resp := NewErrorResponse(err, message, code)

	if m := s.httpMetrics(); m != nil {
		category := string(errors.CategoryGeneric)
		var ee *errors.EnhancedError
		if errors.As(err, &ee) {
			category = ee.GetCategory()
		}
		m.RecordHTTPRequestError(c.Request().Method, c.Path(), category)
	}

	if code >= http.StatusInternalServerError {
		s.logger.Error("api error",
			logger.String("correlation_id", resp.CorrelationID),
			logger.String("message", message),
			logger.String("path", c.Request().URL.Path),
			logger.String("method", c.Request().Method),
			logger.String("ip", c.RealIP()),
			logger.Error(err))
	}
	return c.JSON(code, resp)
}

// httpErrorHandler renders router errors (404, 405, bind failures) in the
// same shape as handler errors.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
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
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, NewErrorResponse(nil, message, code))
}
