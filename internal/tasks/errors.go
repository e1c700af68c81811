package tasks

import "handnotes-backend/internal/shared/apperr"

const maxTitleLength = 255

var (
	ErrNotFound      = apperr.New(apperr.ErrNotFound, "Task not found")
	ErrInvalidFilter = apperr.New(apperr.ErrValidation, "Invalid status filter")
)
