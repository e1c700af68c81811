package classify

import (
	"context"

	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/server/middleware"
	"handnotes-backend/internal/shared/server/respond"
)

// LocaleSource resolves the prompt locale for a user.
type LocaleSource interface {
	Locale(ctx context.Context, userID string) string
}

// Handler serves the analyze endpoint.
type Handler struct {
	Gateway *Gateway
	Locales LocaleSource
}

// NewHandler constructs a Handler. locales may be nil.
func NewHandler(gw *Gateway, locales LocaleSource) *Handler {
	return &Handler{Gateway: gw, Locales: locales}
}

// RegisterRoutes attaches POST /analyze.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.FromError(c, apperr.Wrap(apperr.ErrValidation, msgInvalidRequest, err), msgInvalidRequest)
		return
	}
	if h.Locales != nil {
		in.Locale = h.Locales.Locale(c.Request.Context(), middleware.UserIDFromContext(c))
	}
	c.Set("documentId", in.DocumentID)

	res, err := h.Gateway.Classify(c.Request.Context(), in)
	if err != nil {
		respond.FromError(c, err, "Internal server error")
		return
	}
	respond.OK(c, gin.H{
		"success":    true,
		"data":       res,
		"documentId": in.DocumentID,
	})
}
