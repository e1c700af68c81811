package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FilterSource supplies the user's saved default filter.
type FilterSource interface {
	TaskFilter(ctx context.Context, userID string) string
}

// Service contains business logic for tasks.
type Service struct {
	Repo     Repo
	Defaults FilterSource
	Now      func() time.Time
}

// NewService constructs a Service. defaults may be nil.
func NewService(repo Repo, defaults FilterSource) *Service {
	return &Service{Repo: repo, Defaults: defaults, Now: func() time.Time { return time.Now().UTC() }}
}

// CreateForDocument stores classified tasks as pending tasks owned by userID.
func (s *Service) CreateForDocument(ctx context.Context, userID, documentID string, items []NewTask) ([]Task, error) {
	if len(items) == 0 {
		return []Task{}, nil
	}
	now := s.now()
	out := make([]Task, 0, len(items))
	for _, item := range items {
		out = append(out, Task{
			ID:          uuid.NewString(),
			DocumentID:  documentID,
			UserID:      userID,
			Title:       truncate(strings.TrimSpace(item.Title), maxTitleLength),
			Description: item.Description,
			Status:      StatusPending,
			Priority:    item.Priority,
			DueDate:     item.DueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if err := s.Repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns tasks for userID. An empty filter falls back to the user's saved filter.
func (s *Service) List(ctx context.Context, userID, rawFilter string) ([]Task, Filter, error) {
	filter, ok := ParseFilter(strings.TrimSpace(rawFilter))
	if !ok {
		return nil, "", ErrInvalidFilter
	}
	if filter == "" && s.Defaults != nil {
		filter, _ = ParseFilter(s.Defaults.TaskFilter(ctx, userID))
	}
	if filter == "" {
		filter = FilterAll
	}
	tasks, err := s.Repo.ListByUser(ctx, userID, filter.Status())
	if err != nil {
		return nil, "", err
	}
	return tasks, filter, nil
}

// ListByDocument returns the tasks extracted from one document.
func (s *Service) ListByDocument(ctx context.Context, userID, documentID string) ([]Task, error) {
	return s.Repo.ListByDocument(ctx, userID, documentID)
}

// Toggle flips a task between pending and completed.
func (s *Service) Toggle(ctx context.Context, userID, id string) (Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Task{}, ErrNotFound
	}
	return s.Repo.ToggleStatus(ctx, userID, id)
}

// Delete removes a task. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	return s.Repo.Delete(ctx, userID, id)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
