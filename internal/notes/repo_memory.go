package notes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Note
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Note)}
}

// CreateBatch stores all notes.
func (r *MemoryRepo) CreateBatch(ctx context.Context, notes []Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range notes {
		r.data[n.ID] = n
	}
	return nil
}

// ListByUser returns the user's notes newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Note, error) {
	return r.list(ctx, func(n Note) bool { return n.UserID == userID })
}

// ListByDocument returns the notes extracted from one document.
func (r *MemoryRepo) ListByDocument(ctx context.Context, userID, documentID string) ([]Note, error) {
	return r.list(ctx, func(n Note) bool { return n.UserID == userID && n.DocumentID == documentID })
}

// Delete removes a note if present.
func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.data[id]; ok && n.UserID == userID {
		delete(r.data, id)
	}
	return nil
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Note) bool) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Note, 0)
	for _, n := range r.data {
		if keep(n) {
			out = append(out, n)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
