// Package settings stores per-user preferences: prompt locale and default task filter.
package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/telemetry"
)

// Service reads and updates settings. Reads never fail: on a missing row or a
// store error the defaults are returned.
type Service struct {
	Repo          Repo
	DefaultLocale string
	Now           func() time.Time
}

func NewService(repo Repo, defaultLocale string) *Service {
	if !validLocale(defaultLocale) {
		defaultLocale = LocalePtBR
	}
	return &Service{Repo: repo, DefaultLocale: defaultLocale, Now: func() time.Time { return time.Now().UTC() }}
}

// Defaults returns the settings of a user who never saved any.
func (s *Service) Defaults(userID string) Settings {
	return Settings{UserID: userID, Locale: s.DefaultLocale, TaskFilter: FilterAll}
}

func (s *Service) Get(ctx context.Context, userID string) Settings {
	stored, err := s.Repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			telemetry.Warn("settings.read_failed", map[string]any{"user_id": userID, "error": err.Error()})
		}
		return s.Defaults(userID)
	}
	return stored
}

// Update validates and applies p on top of the current settings.
func (s *Service) Update(ctx context.Context, userID string, p Patch) (Settings, error) {
	var issues []map[string]string
	if p.Locale != nil && !validLocale(strings.TrimSpace(*p.Locale)) {
		issues = append(issues, map[string]string{"path": "locale", "message": "must be pt-BR or en-US"})
	}
	if p.TaskFilter != nil && !validFilter(strings.TrimSpace(*p.TaskFilter)) {
		issues = append(issues, map[string]string{"path": "taskFilter", "message": "must be all, pending or completed"})
	}
	if len(issues) > 0 {
		return Settings{}, apperr.New(apperr.ErrValidation, "Invalid request data").WithDetails(issues)
	}

	cur := s.Get(ctx, userID)
	if p.Locale != nil {
		cur.Locale = strings.TrimSpace(*p.Locale)
	}
	if p.TaskFilter != nil {
		cur.TaskFilter = strings.TrimSpace(*p.TaskFilter)
	}
	cur.UserID = userID
	cur.UpdatedAt = s.Now()
	if err := s.Repo.Upsert(ctx, cur); err != nil {
		return Settings{}, apperr.Wrap(apperr.ErrPersistence, "Failed to save settings", err)
	}
	return cur, nil
}

// Locale returns the user's prompt locale.
func (s *Service) Locale(ctx context.Context, userID string) string {
	return s.Get(ctx, userID).Locale
}

// TaskFilter returns the user's default task filter.
func (s *Service) TaskFilter(ctx context.Context, userID string) string {
	return s.Get(ctx, userID).TaskFilter
}
