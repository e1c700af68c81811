package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const taskColumns = `id, document_id, user_id, title, description, status, priority, due_date, created_at, updated_at`

// CreateBatch inserts all tasks in a single statement.
func (r *PGRepo) CreateBatch(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	const perRow = 10
	var sb strings.Builder
	sb.WriteString("INSERT INTO tasks (" + taskColumns + ") VALUES ")
	args := make([]any, 0, len(tasks)*perRow)
	for i, t := range tasks {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * perRow
		sb.WriteString("(")
		for j := 1; j <= perRow; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+j)
		}
		sb.WriteString(")")
		args = append(args,
			t.ID,
			t.DocumentID,
			t.UserID,
			t.Title,
			nullString(t.Description),
			string(t.Status),
			nullPriority(t.Priority),
			nullTime(t),
			t.CreatedAt,
			t.UpdatedAt,
		)
	}
	_, err := r.DB.ExecContext(ctx, sb.String(), args...)
	return err
}

// ListByUser returns the user's tasks newest-first, optionally filtered by status.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, status Status) ([]Task, error) {
	if status == "" {
		return r.query(ctx, `SELECT `+taskColumns+`
FROM tasks
WHERE user_id = $1
ORDER BY created_at DESC`, userID)
	}
	return r.query(ctx, `SELECT `+taskColumns+`
FROM tasks
WHERE user_id = $1 AND status = $2
ORDER BY created_at DESC`, userID, string(status))
}

// ListByDocument returns the tasks extracted from one document.
func (r *PGRepo) ListByDocument(ctx context.Context, userID, documentID string) ([]Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+`
FROM tasks
WHERE user_id = $1 AND document_id = $2
ORDER BY created_at DESC`, userID, documentID)
}

// ToggleStatus flips pending and completed and advances updated_at.
func (r *PGRepo) ToggleStatus(ctx context.Context, userID, id string) (Task, error) {
	query := `
UPDATE tasks
SET status = CASE WHEN status = 'pending' THEN 'completed' ELSE 'pending' END,
    updated_at = GREATEST(now(), updated_at + interval '1 microsecond')
WHERE user_id = $1 AND id = $2
RETURNING ` + taskColumns
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

// Delete removes a task if present.
func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM tasks WHERE user_id = $1 AND id = $2`
	_, err := r.DB.ExecContext(ctx, query, userID, id)
	return err
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var description sql.NullString
	var status string
	var priority sql.NullString
	var dueDate sql.NullTime
	if err := row.Scan(
		&t.ID,
		&t.DocumentID,
		&t.UserID,
		&t.Title,
		&description,
		&status,
		&priority,
		&dueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return Task{}, err
	}
	t.Status = Status(status)
	if description.Valid {
		t.Description = &description.String
	}
	if priority.Valid {
		p := Priority(priority.String)
		t.Priority = &p
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullPriority(p *Priority) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

func nullTime(t Task) sql.NullTime {
	if t.DueDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t.DueDate, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
