package notes

import (
	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/shared/server/middleware"
	"handnotes-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches note routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notes", h.list)
	rg.DELETE("/notes/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	notes, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err, "Failed to list notes")
		return
	}
	respond.Data(c, notes)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		respond.FromError(c, err, "Failed to delete note")
		return
	}
	respond.OK(c, gin.H{"success": true})
}
