package settings

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Settings, error) {
	var s Settings
	err := r.DB.QueryRowContext(ctx, `SELECT user_id, locale, task_filter, updated_at
FROM user_settings
WHERE user_id = $1`, userID).Scan(&s.UserID, &s.Locale, &s.TaskFilter, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (r *PGRepo) Upsert(ctx context.Context, s Settings) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO user_settings (user_id, locale, task_filter, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE
SET locale = EXCLUDED.locale, task_filter = EXCLUDED.task_filter, updated_at = EXCLUDED.updated_at`,
		s.UserID, s.Locale, s.TaskFilter, s.UpdatedAt)
	return err
}

var _ Repo = (*PGRepo)(nil)
