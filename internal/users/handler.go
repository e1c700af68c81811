package users

import (
	"errors"

	"github.com/gin-gonic/gin"

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
	rg.GET("/me", h.me)
}

// me returns the stored profile. Tokens issued without a Google login (the CLI,
// tests) have no row, so the claims are echoed instead.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if errors.Is(err, ErrNotFound) {
		user, err = User{
			ID:        userID,
			Email:     middleware.UserEmailFromContext(c),
			Name:      middleware.UserNameFromContext(c),
			AvatarURL: middleware.UserPictureFromContext(c),
		}, nil
	}
	if err != nil {
		respond.FromError(c, err, "Failed to load user")
		return
	}
	respond.Data(c, user.Profile())
}
