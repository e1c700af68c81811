package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
// Handlers may set documentId and pipelineState on the context to enrich the line.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		documentID, _ := c.Get("documentId")
		pipelineState := ""
		if raw, ok := c.Get("pipelineState"); ok {
			if s, ok := raw.(string); ok {
				pipelineState = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":     RequestIDFromContext(c),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"pipeline_state": pipelineState,
			"duration_ms":    float64(latency.Microseconds()) / 1000.0,
			"user_id":        UserIDFromContext(c),
			"document_id":    documentID,
			"client_ip":      c.ClientIP(),
			"user_agent":     c.Request.UserAgent(),
		})
	}
}
