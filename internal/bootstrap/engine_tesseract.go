//go:build tesseract

package bootstrap

import (
	"handnotes-backend/internal/llm"
	"handnotes-backend/internal/ocr"
	"handnotes-backend/internal/ocr/tesseract"
)

func ocrEngine(name string, client llm.Client) (ocr.Engine, error) {
	if name == "tesseract" {
		return tesseract.New(), nil
	}
	return &ocr.VisionEngine{LLM: client}, nil
}
