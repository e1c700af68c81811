package settings

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Repo.Get when the user has no stored settings.
var ErrNotFound = errors.New("settings not found")

// Repo persists settings keyed by user.
type Repo interface {
	Get(ctx context.Context, userID string) (Settings, error)
	Upsert(ctx context.Context, s Settings) error
}
