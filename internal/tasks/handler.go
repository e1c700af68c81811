package tasks

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

// RegisterRoutes attaches task routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tasks", h.list)
	rg.PATCH("/tasks/:id/toggle", h.toggle)
	rg.DELETE("/tasks/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	tasks, filter, err := h.Svc.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respond.FromError(c, err, "Failed to list tasks")
		return
	}
	respond.OK(c, gin.H{"success": true, "data": tasks, "filter": filter})
}

func (h *Handler) toggle(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	task, err := h.Svc.Toggle(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respond.FromError(c, err, "Failed to update task")
		return
	}
	respond.Data(c, task)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respond.FromError(c, err, "Failed to delete task")
		return
	}
	respond.OK(c, gin.H{"success": true})
}
