package ocr

import (
	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/server/respond"
)

// Handler serves the OCR endpoint.
type Handler struct {
	Gateway *Gateway
}

// NewHandler constructs a Handler.
func NewHandler(gw *Gateway) *Handler {
	return &Handler{Gateway: gw}
}

// RegisterRoutes attaches POST /ocr.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ocr", h.extract)
}

type extractRequest struct {
	ImageURL string `json:"imageUrl"`
}

func (h *Handler) extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.FromError(c, apperr.Wrap(apperr.ErrValidation, msgInvalidRequest, err), msgInvalidRequest)
		return
	}
	text, err := h.Gateway.ExtractText(c.Request.Context(), req.ImageURL)
	if err != nil {
		respond.FromError(c, err, "Internal server error")
		return
	}
	respond.Data(c, gin.H{"text": text})
}
