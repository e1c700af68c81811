package notes

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const noteColumns = `id, document_id, user_id, title, content, created_at, updated_at`

// CreateBatch inserts all notes in a single statement.
func (r *PGRepo) CreateBatch(ctx context.Context, notes []Note) error {
	if len(notes) == 0 {
		return nil
	}
	const perRow = 7
	var sb strings.Builder
	sb.WriteString("INSERT INTO notes (" + noteColumns + ") VALUES ")
	args := make([]any, 0, len(notes)*perRow)
	for i, n := range notes {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * perRow
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, n.ID, n.DocumentID, n.UserID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt)
	}
	_, err := r.DB.ExecContext(ctx, sb.String(), args...)
	return err
}

// ListByUser returns the user's notes newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Note, error) {
	return r.query(ctx, `SELECT `+noteColumns+`
FROM notes
WHERE user_id = $1
ORDER BY created_at DESC`, userID)
}

// ListByDocument returns the notes extracted from one document.
func (r *PGRepo) ListByDocument(ctx context.Context, userID, documentID string) ([]Note, error) {
	return r.query(ctx, `SELECT `+noteColumns+`
FROM notes
WHERE user_id = $1 AND document_id = $2
ORDER BY created_at DESC`, userID, documentID)
}

// Delete removes a note if present.
func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE user_id = $1 AND id = $2`, userID, id)
	return err
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Note, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.DocumentID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
