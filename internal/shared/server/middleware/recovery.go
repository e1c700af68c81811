package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/server/respond"
	"handnotes-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 service error with the standard body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"user_id":    UserIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			respond.FromError(c, apperr.New(apperr.ErrService, "Unexpected server error"), "Unexpected server error")
		}()
		c.Next()
	}
}
