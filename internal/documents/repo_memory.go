package documents

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// Get returns a document owned by userID.
func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok || doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByUser lists documents newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []Document
	for _, doc := range r.data {
		if doc.UserID == userID {
			out = append(out, doc)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// UpdateExtractedText sets the OCR text on a document.
func (r *MemoryRepo) UpdateExtractedText(ctx context.Context, userID, id, text string) error {
	return r.update(ctx, userID, id, func(doc *Document) {
		doc.ExtractedText = &text
	})
}

// UpdateAnalysis stores the classification blob on a document.
func (r *MemoryRepo) UpdateAnalysis(ctx context.Context, userID, id string, analysis json.RawMessage) error {
	return r.update(ctx, userID, id, func(doc *Document) {
		doc.Analysis = append(json.RawMessage(nil), analysis...)
	})
}

func (r *MemoryRepo) update(ctx context.Context, userID, id string, apply func(*Document)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok || doc.UserID != userID {
		return ErrNotFound
	}
	apply(&doc)
	doc.UpdatedAt = r.now()
	r.data[id] = doc
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
