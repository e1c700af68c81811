package settings

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Settings
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Settings)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[userID]
	if !ok {
		return Settings{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, s Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data[s.UserID] = s
	r.mu.Unlock()
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
