package notes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for notes.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// CreateForDocument stores classified notes owned by userID.
func (s *Service) CreateForDocument(ctx context.Context, userID, documentID string, items []NewNote) ([]Note, error) {
	if len(items) == 0 {
		return []Note{}, nil
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	out := make([]Note, 0, len(items))
	for _, item := range items {
		out = append(out, Note{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			UserID:     userID,
			Title:      strings.TrimSpace(item.Title),
			Content:    strings.TrimSpace(item.Content),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if err := s.Repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns the user's notes newest-first.
func (s *Service) List(ctx context.Context, userID string) ([]Note, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// ListByDocument returns the notes extracted from one document.
func (s *Service) ListByDocument(ctx context.Context, userID, documentID string) ([]Note, error) {
	return s.Repo.ListByDocument(ctx, userID, documentID)
}

// Delete removes a note. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	return s.Repo.Delete(ctx, userID, id)
}
