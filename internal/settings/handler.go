package settings

import (
	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/server/middleware"
	"handnotes-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.get)
	rg.PUT("/settings", h.update)
}

func (h *Handler) get(c *gin.Context) {
	respond.Data(c, h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c)))
}

func (h *Handler) update(c *gin.Context) {
	var p Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.FromError(c, apperr.Wrap(apperr.ErrValidation, "Invalid request data", err), "Invalid request data")
		return
	}
	s, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), p)
	if err != nil {
		respond.FromError(c, err, "Failed to save settings")
		return
	}
	respond.Data(c, s)
}
