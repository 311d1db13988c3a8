package rest

import (
	"errors"
	"net/http"

	"splitHub/domain"
	"splitHub/pkg/logger"
	"splitHub/pkg/response"

	"github.com/labstack/echo/v4"
)

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrVisitorIDRequired, http.StatusBadRequest, "VISITOR_ID_REQUIRED"},
	{domain.ErrExperimentRequired, http.StatusBadRequest, "EXPERIMENT_REQUIRED"},
	{domain.ErrInvalidRevenue, http.StatusBadRequest, "INVALID_REVENUE"},
	{domain.ErrExperimentNotFound, http.StatusNotFound, "EXPERIMENT_NOT_FOUND"},
	{domain.ErrExperimentNotRunning, http.StatusUnprocessableEntity, "EXPERIMENT_NOT_RUNNING"},
	{domain.ErrNoActiveVariants, http.StatusUnprocessableEntity, "NO_ACTIVE_VARIANTS"},
	{domain.ErrAssignmentNotFound, http.StatusUnprocessableEntity, "ASSIGNMENT_NOT_FOUND"},
}

// statusFor maps service errors onto HTTP. Anything that is not a known
// client error is a 500.
func statusFor(err error) (int, string) {
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	if domain.IsValidation(err) {
		return http.StatusBadRequest, "VALIDATION_ERROR"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func writeError(c echo.Context, err error) error {
	status, code := statusFor(err)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"trace_id", logger.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
		return c.JSON(status, response.Error(code, "internal server error", nil))
	}

	var ve *domain.ValidationError
	msg := err.Error()
	if errors.As(err, &ve) {
		msg = ve.Err.Error()
	}
	return c.JSON(status, response.Error(code, msg, nil))
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, response.Error("INVALID_REQUEST", err.Error(), nil))
}
