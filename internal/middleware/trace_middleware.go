package middleware

import (
	"splitHub/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TraceID reuses the caller's X-Request-ID or mints one, and puts it on the
// request context so service logs and events carry it.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			tid := req.Header.Get(echo.HeaderXRequestID)
			if tid == "" || len(tid) > 128 {
				tid = uuid.NewString()
			}

			c.SetRequest(req.WithContext(logger.WithTraceID(req.Context(), tid)))
			c.Response().Header().Set(echo.HeaderXRequestID, tid)

			return next(c)
		}
	}
}
