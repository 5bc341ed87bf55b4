package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/baines-ai/voice-service/pkg/metrics"
)

// MetricsMiddleware counts requests and error responses per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordRequest(endpoint, c.Writer.Status() < 400)
	}
}
