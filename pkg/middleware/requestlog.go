package middleware

import (
	"time"

	"trading-statistics/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// WithRequestLogger stores a request-scoped logger in the request context and
// logs every finished request.
func WithRequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			reqLog := log.With(logger.StringField("request_id", requestID))
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), reqLog)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			reqLog.Info("HTTP request",
				logger.StringField("method", req.Method),
				logger.StringField("path", req.URL.Path),
				logger.IntField("status", c.Response().Status),
				logger.Field("latency", time.Since(start)),
			)
			return nil
		}
	}
}
