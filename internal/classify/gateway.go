// Package classify turns extracted note text into tasks and notes using an LLM.
package classify

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"handnotes-backend/internal/llm"
	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/telemetry"
)

const (
	msgInvalidRequest = "Invalid request data"
	msgNotConfigured  = "AI service not configured"
	msgParseFailed    = "Failed to parse AI response"
	msgSchemaInvalid  = "AI response did not match the expected format"
	msgServiceFailed  = "Failed to analyze text"
)

// Input is one classification request.
type Input struct {
	Text       string `json:"text"`
	DocumentID string `json:"documentId"`
	Locale     string `json:"-"`
}

// Gateway classifies text with a single LLM call.
type Gateway struct {
	LLM llm.Client
}

// Classify validates in, asks the model for JSON and validates what comes back.
func (g *Gateway) Classify(ctx context.Context, in Input) (Result, error) {
	if issues := validateInput(in); len(issues) > 0 {
		return Result{}, apperr.New(apperr.ErrValidation, msgInvalidRequest).WithDetails(issues)
	}
	if g.LLM == nil {
		return Result{}, apperr.New(apperr.ErrNotConfigured, msgNotConfigured)
	}

	prompt, err := BuildPrompt(in.Locale, in.Text)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.ErrService, msgServiceFailed, err)
	}
	raw, err := g.LLM.Generate(ctx, llm.Request{
		Prompt:      prompt,
		JSON:        true,
		Temperature: llm.Float32(0.7),
		TopP:        llm.Float32(0.95),
		TopK:        llm.Int(40),
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return Result{}, apperr.Wrap(apperr.ErrNotConfigured, msgNotConfigured, err)
		}
		return Result{}, apperr.Wrap(apperr.ErrService, msgServiceFailed, err)
	}

	res, issues, err := decode(StripFences(raw))
	if err != nil {
		telemetry.Error("classify.parse_failed", map[string]any{
			"document_id": in.DocumentID,
			"error":       err.Error(),
			"raw_len":     len(raw),
		})
		return Result{}, apperr.Wrap(apperr.ErrParse, msgParseFailed, err)
	}
	if len(issues) == 0 {
		issues = res.Validate()
	}
	if len(issues) > 0 {
		telemetry.Error("classify.schema_invalid", map[string]any{
			"document_id": in.DocumentID,
			"issues":      len(issues),
			"first":       issues[0].Path,
		})
		return Result{}, apperr.New(apperr.ErrSchema, msgSchemaInvalid).WithDetails(issues)
	}

	telemetry.Info("classify.done", map[string]any{
		"document_id": in.DocumentID,
		"tasks":       len(res.Tasks),
		"notes":       len(res.Notes),
	})
	return res, nil
}

func validateInput(in Input) []Issue {
	var issues []Issue
	if strings.TrimSpace(in.Text) == "" {
		issues = append(issues, Issue{Path: "text", Message: "required"})
	}
	if _, err := uuid.Parse(in.DocumentID); err != nil {
		issues = append(issues, Issue{Path: "documentId", Message: "must be a UUID"})
	}
	return issues
}
