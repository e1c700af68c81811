package ocr

import "handnotes-backend/internal/shared/apperr"

// MaxImageBytes caps how much of a fetched image is read.
const MaxImageBytes = 10 << 20

const (
	msgInvalidRequest = "Invalid request data"
	msgNotConfigured  = "OCR service not configured"
	msgFetchFailed    = "Failed to fetch image"
	msgNoText         = "No text found in image"
	msgEngineFailed   = "Failed to extract text"
)

var (
	ErrNotConfigured = apperr.New(apperr.ErrNotConfigured, msgNotConfigured)
	ErrNoText        = apperr.New(apperr.ErrEmptyResult, msgNoText)
)
