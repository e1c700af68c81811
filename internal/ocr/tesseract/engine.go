//go:build tesseract

package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"handnotes-backend/internal/ocr"
)

// Engine implements ocr.Engine with gosseract. Languages defaults to por+eng.
type Engine struct {
	Languages []string
}

func New(languages ...string) *Engine {
	if len(languages) == 0 {
		languages = []string{"por", "eng"}
	}
	return &Engine{Languages: languages}
}

func (e *Engine) Recognize(ctx context.Context, img ocr.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prepared, err := prepare(img.Data)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(e.Languages...); err != nil {
		return "", fmt.Errorf("tesseract language: %w", err)
	}
	if err := client.SetImageFromBytes(prepared); err != nil {
		return "", fmt.Errorf("tesseract image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// prepare converts to grayscale and lifts contrast, which helps on pencil and
// low-light photos.
func prepare(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	gray := imaging.Grayscale(src)
	gray = imaging.AdjustContrast(gray, 30)
	gray = imaging.Sharpen(gray, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ ocr.Engine = (*Engine)(nil)
