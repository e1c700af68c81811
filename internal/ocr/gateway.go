package ocr

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"handnotes-backend/internal/llm"
	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/telemetry"
)

// Gateway fetches an image by URL and extracts its text. One attempt, no retries.
type Gateway struct {
	Fetcher      Fetcher
	Engine       Engine
	MaxDimension int
	AllowedHosts []string
}

// ExtractText returns the trimmed text found in the image at imageURL.
func (g *Gateway) ExtractText(ctx context.Context, imageURL string) (string, error) {
	if err := g.validateURL(imageURL); err != nil {
		return "", err
	}
	if g.Engine == nil {
		return "", ErrNotConfigured
	}
	if r, ok := g.Engine.(Readier); ok {
		if err := r.Ready(); err != nil {
			telemetry.Warn("ocr.engine_not_ready", map[string]any{"error": err.Error()})
			return "", ErrNotConfigured
		}
	}

	img, err := g.Fetcher.Fetch(ctx, imageURL)
	if err != nil {
		telemetry.Warn("ocr.fetch_failed", map[string]any{"error": err.Error()})
		return "", apperr.Wrap(apperr.ErrFetch, msgFetchFailed, err)
	}
	img = Preprocess(img, g.MaxDimension)

	text, err := g.Engine.Recognize(ctx, img)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			return "", ErrNotConfigured
		case errors.Is(err, llm.ErrEmptyResponse):
			return "", ErrNoText
		}
		return "", apperr.Wrap(apperr.ErrService, msgEngineFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func (g *Gateway) validateURL(raw string) error {
	invalid := func(reason string) error {
		return apperr.New(apperr.ErrValidation, msgInvalidRequest).
			WithDetails(map[string]any{"imageUrl": reason})
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return invalid("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("must use http or https")
	}
	if len(g.AllowedHosts) == 0 {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range g.AllowedHosts {
		if strings.EqualFold(strings.TrimSpace(allowed), host) {
			return nil
		}
	}
	return invalid("host is not allowed")
}
