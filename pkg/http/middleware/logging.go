package middleware

import (
	"time"

	"PairLink/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one debug line per request, or a warning for 4xx and
// an error for 5xx responses.
func RequestLogging(l logger.Log) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []logger.Field{
				logger.String("method", req.Method),
				logger.String("route", routeLabel(c)),
				logger.String("remote_ip", c.RealIP()),
				logger.Int("status", status),
				logger.Duration("duration_ms", time.Since(start)),
				logger.Int("bytes", int(c.Response().Size)),
			}
			switch {
			case status >= 500:
				l.Error("http request failed", append(fields, logger.Error(err))...)
			case status >= 400:
				l.Warn("http request rejected", fields...)
			default:
				l.Debug("http request", fields...)
			}
			return nil
		}
	}
}

// routeLabel prefers the registered route template to keep cardinality low.
func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}
