package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"splitHub/pkg/logger"

	jsonres "splitHub/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape handlers (routing, binding,
// panics recovered by echo) in the same envelope as handler errors.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("unhandled error",
			"trace_id", logger.TraceIDFromContext(c.Request().Context()),
			"path", c.Request().URL.Path,
			"error", err,
		)
	}

	code := strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	if code == "" {
		code = "ERROR"
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if writeErr != nil {
		logger.Error("failed to write error response", "error", writeErr)
	}
}
