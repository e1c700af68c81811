package tasks

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Task
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Task),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// CreateBatch stores all tasks.
func (r *MemoryRepo) CreateBatch(ctx context.Context, tasks []Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tasks {
		r.data[t.ID] = t
	}
	return nil
}

// ListByUser returns the user's tasks newest-first, optionally filtered by status.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, status Status) ([]Task, error) {
	return r.list(ctx, func(t Task) bool {
		return t.UserID == userID && (status == "" || t.Status == status)
	})
}

// ListByDocument returns the tasks extracted from one document.
func (r *MemoryRepo) ListByDocument(ctx context.Context, userID, documentID string) ([]Task, error) {
	return r.list(ctx, func(t Task) bool {
		return t.UserID == userID && t.DocumentID == documentID
	})
}

// ToggleStatus flips pending and completed.
func (r *MemoryRepo) ToggleStatus(ctx context.Context, userID, id string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.data[id]
	if !ok || t.UserID != userID {
		return Task{}, ErrNotFound
	}
	t.Status = t.Status.Toggled()
	now := r.now()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
	r.data[id] = t
	return t, nil
}

// Delete removes a task if present.
func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.data[id]; ok && t.UserID == userID {
		delete(r.data, id)
	}
	return nil
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Task) bool) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Task, 0)
	for _, t := range r.data {
		if keep(t) {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
