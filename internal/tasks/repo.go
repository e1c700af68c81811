package tasks

import "context"

// Repo defines persistence operations for tasks. Every call is scoped to the owning user.
type Repo interface {
	CreateBatch(ctx context.Context, tasks []Task) error
	ListByUser(ctx context.Context, userID string, status Status) ([]Task, error)
	ListByDocument(ctx context.Context, userID, documentID string) ([]Task, error)
	ToggleStatus(ctx context.Context, userID, id string) (Task, error)
	// Delete removes the task. Deleting a missing task is not an error.
	Delete(ctx context.Context, userID, id string) error
}
