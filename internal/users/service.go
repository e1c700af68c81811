package users

import (
	"context"
	"errors"
	"strings"

	"handnotes-backend/internal/shared/apperr"
)

var errNoID = apperr.New(apperr.ErrValidation, "user id is required")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth records a successful login. Emails are stored lowercased and a
// blank display name falls back to the email's local part.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) (User, error) {
	user.ID = strings.TrimSpace(user.ID)
	if user.ID == "" {
		return User{}, errNoID
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)
	if user.Name == "" {
		user.Name, _, _ = strings.Cut(user.Email, "@")
	}
	out, err := s.Repo.Upsert(ctx, user)
	if err != nil {
		return User{}, apperr.Wrap(apperr.ErrPersistence, "Failed to save user", err)
	}
	return out, nil
}

// GetByID returns the stored user or an apperr NotFound.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, errNoID
	}
	user, err := s.Repo.GetByID(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		return User{}, apperr.Wrap(apperr.ErrNotFound, "User not found", err)
	case err != nil:
		return User{}, apperr.Wrap(apperr.ErrPersistence, "Failed to load user", err)
	}
	return user, nil
}
