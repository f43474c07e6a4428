package server

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// RequestLogger logs every request to logger, at warning level for client errors and at
// error level for server errors.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			var (
				req    = c.Request()
				status = c.Response().Status
				fields = []any{
					"method", req.Method,
					"uri", req.RequestURI,
					"status", status,
					"bytes", c.Response().Size,
					"duration", time.Since(start),
				}
			)
			switch {
			case status >= 500:
				logger.Error("request", fields...)
			case status >= 400:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
			return nil
		}
	}
}
