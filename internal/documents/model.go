package documents

import (
	"encoding/json"
	"io"
	"time"
)

// Document is one uploaded image and the artifacts derived from it.
type Document struct {
	ID            string
	UserID        string
	ImageURL      string
	StorageKey    string
	ContentType   string
	SizeBytes     int64
	ExtractedText *string
	Analysis      json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Upload is a file handed to the storage gateway.
type Upload struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID            string          `json:"id"`
	ImageURL      string          `json:"imageUrl"`
	ContentType   string          `json:"contentType"`
	SizeBytes     int64           `json:"sizeBytes"`
	ExtractedText *string         `json:"extractedText"`
	Analysis      json.RawMessage `json:"analysis"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToResponse maps a Document to its JSON shape.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:            doc.ID,
		ImageURL:      doc.ImageURL,
		ContentType:   doc.ContentType,
		SizeBytes:     doc.SizeBytes,
		ExtractedText: doc.ExtractedText,
		Analysis:      doc.Analysis,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
