package pipeline

import (
	"errors"

	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/documents"
	"handnotes-backend/internal/shared/server/middleware"
	"handnotes-backend/internal/shared/server/respond"
)

// Handler serves the one-shot upload, OCR and classify endpoint.
type Handler struct {
	Pipeline *Pipeline
}

// NewHandler constructs a Handler.
func NewHandler(p *Pipeline) *Handler {
	return &Handler{Pipeline: p}
}

// RegisterRoutes attaches POST /pipeline.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/pipeline", h.run)
}

func (h *Handler) run(c *gin.Context) {
	in, cleanup, err := documents.ReadUpload(c)
	if err != nil {
		respond.FromError(c, err, "Internal server error")
		return
	}
	defer cleanup()

	res, err := h.Pipeline.Run(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if res.DocumentID != "" {
		c.Set("documentId", res.DocumentID)
	}
	if err != nil {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			c.Set("pipelineState", string(stageErr.Stage))
		}
		respond.FromError(c, err, "Internal server error")
		return
	}
	c.Set("pipelineState", string(res.State))
	respond.Data(c, res)
}
