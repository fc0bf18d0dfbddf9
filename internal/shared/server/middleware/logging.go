package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cognidoc-backend/internal/shared/metrics"
	"cognidoc-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request and records request metrics.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), status, latency)
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			return
		}

		promptType, _ := c.Get("promptType")
		fileName, _ := c.Get("fileName")

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"prompt_type": promptType,
			"file_name":   fileName,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
