package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/storage/object"
	"handnotes-backend/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Now   func() time.Time
}

// NewService constructs a Service.
func NewService(store object.ObjectStore, repo Repo) *Service {
	return &Service{Store: store, Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// Upload validates the image, writes it to object storage and records the document.
// Type and size are checked before any storage call. When the record cannot be created
// the blob is removed again, so a failed upload leaves nothing behind.
func (s *Service) Upload(ctx context.Context, userID string, in Upload) (Document, error) {
	if strings.TrimSpace(userID) == "" {
		return Document{}, ErrMissingUserID
	}
	if in.Body == nil {
		return Document{}, ErrNoFile
	}
	if in.SizeBytes > MaxUploadSize {
		return Document{}, ErrTooLarge
	}
	if _, ok := AllowedContentTypes[normalizeContentType(in.ContentType)]; !ok {
		return Document{}, ErrInvalidType
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, MaxUploadSize+1))
	if err != nil {
		return Document{}, apperr.Wrap(apperr.ErrValidation, "Unable to read file", err)
	}
	if len(data) == 0 {
		return Document{}, ErrNoFile
	}
	if len(data) > MaxUploadSize {
		return Document{}, ErrTooLarge
	}
	contentType := http.DetectContentType(data)
	ext, ok := AllowedContentTypes[contentType]
	if !ok {
		return Document{}, ErrInvalidType
	}

	key := object.NewUserKey(userID, ext)
	size, err := s.Store.Put(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return Document{}, apperr.Wrap(apperr.ErrPersistence, msgStoreFailed, err)
	}

	imageURL, err := s.Store.URL(ctx, key)
	if err != nil {
		s.discard(ctx, userID, key, err)
		return Document{}, apperr.Wrap(apperr.ErrPersistence, msgStoreFailed, err)
	}

	now := s.now()
	doc := Document{
		ID:          uuid.NewString(),
		UserID:      userID,
		ImageURL:    imageURL,
		StorageKey:  key,
		ContentType: contentType,
		SizeBytes:   size,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		s.discard(ctx, userID, key, err)
		return Document{}, apperr.Wrap(apperr.ErrPersistence, msgRecordFailed, err)
	}

	telemetry.Info("document.uploaded", map[string]any{
		"document_id":  doc.ID,
		"user_id":      userID,
		"content_type": contentType,
		"size_bytes":   size,
	})
	return doc, nil
}

// Get returns a document owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, id)
}

// List returns the user's documents newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// SetExtractedText records the OCR output on a document.
func (s *Service) SetExtractedText(ctx context.Context, userID, id, text string) error {
	return s.Repo.UpdateExtractedText(ctx, userID, id, text)
}

// SetAnalysis records the classification output on a document.
func (s *Service) SetAnalysis(ctx context.Context, userID, id string, analysis json.RawMessage) error {
	if !json.Valid(analysis) {
		return apperr.New(apperr.ErrValidation, "analysis must be valid JSON")
	}
	return s.Repo.UpdateAnalysis(ctx, userID, id, analysis)
}

func (s *Service) discard(ctx context.Context, userID, key string, cause error) {
	if err := s.Store.Delete(context.WithoutCancel(ctx), key); err != nil {
		telemetry.Error("document.orphaned_blob", map[string]any{
			"user_id":     userID,
			"storage_key": key,
			"cause":       cause.Error(),
			"error":       err.Error(),
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func normalizeContentType(raw string) string {
	ct := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}
