package ocr

import (
	"context"

	"handnotes-backend/internal/llm"
)

// Engine turns an image into text.
type Engine interface {
	Recognize(ctx context.Context, img Image) (string, error)
}

// Readier is implemented by engines that can tell up front whether they are
// usable. The gateway asks before fetching the image.
type Readier interface {
	Ready() error
}

// Prompt is the instruction sent with every vision OCR call.
const Prompt = "Extract all text from this image. If the text is handwritten, do your best to read it accurately. Return only the extracted text, without any additional comments or formatting."

// VisionEngine runs OCR through a vision-capable LLM.
type VisionEngine struct {
	LLM llm.Client
}

// Ready returns llm.ErrNotConfigured when no provider credentials were supplied.
func (e *VisionEngine) Ready() error {
	if !llm.Configured(e.LLM) {
		return llm.ErrNotConfigured
	}
	return nil
}

func (e *VisionEngine) Recognize(ctx context.Context, img Image) (string, error) {
	if err := e.Ready(); err != nil {
		return "", err
	}
	return e.LLM.Generate(ctx, llm.Request{
		Prompt:      Prompt,
		Image:       &llm.Image{Data: img.Data, MimeType: img.MimeType},
		Temperature: llm.Float32(0.4),
		TopP:        llm.Float32(0.95),
		TopK:        llm.Int(40),
	})
}
