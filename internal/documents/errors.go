package documents

import "handnotes-backend/internal/shared/apperr"

// MaxUploadSize is the upload ceiling in bytes.
const MaxUploadSize = 10 << 20

// AllowedContentTypes maps accepted image types to the extension used in storage keys.
var AllowedContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

var (
	ErrNotFound      = apperr.New(apperr.ErrNotFound, "Document not found")
	ErrNoFile        = apperr.New(apperr.ErrValidation, "No file provided")
	ErrInvalidType   = apperr.New(apperr.ErrValidation, "Invalid file type. Only JPEG, PNG, and WEBP are allowed.")
	ErrTooLarge      = apperr.New(apperr.ErrValidation, "File size must be less than 10MB")
	ErrMissingUserID = apperr.New(apperr.ErrUnauthorized, "Unauthorized")
)

const (
	msgStoreFailed  = "Failed to upload file"
	msgRecordFailed = "Failed to create document record"
)
