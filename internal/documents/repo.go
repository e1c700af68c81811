package documents

import (
	"context"
	"encoding/json"
)

// Repo defines persistence operations for documents. Every call is scoped to the owning user.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, userID, id string) (Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error)
	UpdateExtractedText(ctx context.Context, userID, id, text string) error
	UpdateAnalysis(ctx context.Context, userID, id string, analysis json.RawMessage) error
}
