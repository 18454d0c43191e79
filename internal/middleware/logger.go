package middleware

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

type contextKey string

const loggerKey = contextKey("logger")

// Logger injects a request-scoped logger carrying the request id, method and
// path. It must run after echo's RequestID middleware.
func Logger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		WithLogAttrs(c,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"method", req.Method,
			"path", req.URL.Path,
		)
		return next(c)
	}
}

// WithLogAttrs adds attributes to the request logger for everything that runs
// after it, e.g. the wizard session id once it is known.
func WithLogAttrs(c echo.Context, args ...any) {
	logger := FromContext(c.Request().Context()).With(args...)
	ctx := context.WithValue(c.Request().Context(), loggerKey, logger)
	c.SetRequest(c.Request().WithContext(ctx))
}

// FromContext returns the request logger, or the default logger outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
