package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/telemetry"
)

// ErrorResponse is the body of every error reply. Error is the user-facing message.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// FromError maps an apperr kind to a status and code. Unknown errors become a 500 with fallback.
func FromError(c *gin.Context, err error, fallback string) {
	status, code := StatusFor(err)
	message := apperr.Message(err, fallback)
	var details any
	if e, ok := apperr.As(err); ok {
		details = e.Details
	}
	if status == http.StatusInternalServerError && err != nil {
		telemetry.Error("http.internal_error", map[string]any{
			"request_id": c.GetString("requestId"),
			"error":      err.Error(),
		})
	}
	Error(c, status, code, message, details)
}

// StatusFor returns the HTTP status and machine code for err.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperr.ErrFetch):
		return http.StatusBadRequest, "fetch_error"
	case errors.Is(err, apperr.ErrEmptyResult):
		return http.StatusBadRequest, "empty_result"
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrParse):
		return http.StatusInternalServerError, "parse_error"
	case errors.Is(err, apperr.ErrSchema):
		return http.StatusInternalServerError, "schema_error"
	case errors.Is(err, apperr.ErrNotConfigured):
		return http.StatusInternalServerError, "not_configured"
	case errors.Is(err, apperr.ErrService):
		return http.StatusInternalServerError, "service_error"
	case errors.Is(err, apperr.ErrPersistence):
		return http.StatusInternalServerError, "persistence_error"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
