package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"udyokta.backend/pkg/logger"
	"udyokta.backend/pkg/metrics"
)

// LoggerMiddleware logs HTTP requests using the structured logger and
// records them in the request metrics
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), latency)
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), latency, c.ClientIP())
	}
}
