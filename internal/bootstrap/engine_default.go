//go:build !tesseract

package bootstrap

import (
	"fmt"

	"handnotes-backend/internal/llm"
	"handnotes-backend/internal/ocr"
)

func ocrEngine(name string, client llm.Client) (ocr.Engine, error) {
	if name == "tesseract" {
		return nil, fmt.Errorf("OCR_ENGINE=tesseract requires a build with -tags tesseract")
	}
	return &ocr.VisionEngine{LLM: client}, nil
}
