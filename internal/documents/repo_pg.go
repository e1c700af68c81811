package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, image_url, storage_key, content_type, size_bytes, extracted_text, analysis, created_at, updated_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    image_url,
    storage_key,
    content_type,
    size_bytes,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.ImageURL,
		doc.StorageKey,
		doc.ContentType,
		doc.SizeBytes,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// Get fetches a document by ID for a user.
func (r *PGRepo) Get(ctx context.Context, userID, id string) (Document, error) {
	query := `SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateExtractedText sets the OCR text on a document.
func (r *PGRepo) UpdateExtractedText(ctx context.Context, userID, id, text string) error {
	const query = `
UPDATE documents
SET extracted_text = $1, updated_at = now()
WHERE user_id = $2 AND id = $3`
	return r.execOne(ctx, query, text, userID, id)
}

// UpdateAnalysis stores the classification blob on a document.
func (r *PGRepo) UpdateAnalysis(ctx context.Context, userID, id string, analysis json.RawMessage) error {
	const query = `
UPDATE documents
SET analysis = $1::jsonb, updated_at = now()
WHERE user_id = $2 AND id = $3`
	return r.execOne(ctx, query, string(analysis), userID, id)
}

func (r *PGRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var extracted sql.NullString
	var analysis []byte
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.ImageURL,
		&doc.StorageKey,
		&doc.ContentType,
		&doc.SizeBytes,
		&extracted,
		&analysis,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	if extracted.Valid {
		doc.ExtractedText = &extracted.String
	}
	if len(analysis) > 0 {
		doc.Analysis = json.RawMessage(analysis)
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
