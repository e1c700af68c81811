package llm

import (
	"context"
	"errors"
)

// Client abstracts generative model providers.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single-turn model call. Image is optional.
type Request struct {
	Prompt      string
	Image       *Image
	JSON        bool
	Temperature *float32
	TopP        *float32
	TopK        *int
}

// Image is inline image input for vision-capable models.
type Image struct {
	Data     []byte
	MimeType string
}

// Float32 returns a pointer to v.
func Float32(v float32) *float32 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// ErrNotConfigured is returned when no provider credentials were supplied.
var ErrNotConfigured = errors.New("LLM provider not configured")

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("LLM response empty")

// PlaceholderClient stands in when no provider is configured.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}

// Configured reports whether c can reach a real provider.
func Configured(c Client) bool {
	switch c.(type) {
	case nil, PlaceholderClient, *PlaceholderClient:
		return false
	}
	return true
}
