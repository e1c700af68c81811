package notes

import "context"

// Repo defines persistence operations for notes. Every call is scoped to the owning user.
type Repo interface {
	CreateBatch(ctx context.Context, notes []Note) error
	ListByUser(ctx context.Context, userID string) ([]Note, error)
	ListByDocument(ctx context.Context, userID, documentID string) ([]Note, error)
	// Delete removes the note. Deleting a missing note is not an error.
	Delete(ctx context.Context, userID, id string) error
}
