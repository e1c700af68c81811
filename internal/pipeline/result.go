package pipeline

import (
	"fmt"

	"handnotes-backend/internal/classify"
)

// Best-effort write targets.
const (
	TargetExtractedText = "extracted_text"
	TargetTasks         = "tasks"
	TargetNotes         = "notes"
	TargetAnalysis      = "analysis"
)

// Warning reports a best-effort write that failed without failing the run.
type Warning struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

// Next tells the client where to go once the run succeeded.
type Next struct {
	Path    string `json:"path"`
	DelayMs int    `json:"delayMs"`
}

// Result is the outcome of a successful run.
type Result struct {
	State         State           `json:"state"`
	DocumentID    string          `json:"documentId"`
	ImageURL      string          `json:"imageUrl"`
	ExtractedText string          `json:"extractedText"`
	Tasks         []classify.Task `json:"tasks"`
	Notes         []classify.Note `json:"notes"`
	Summary       string          `json:"summary,omitempty"`
	Warnings      []Warning       `json:"warnings"`
	Next          Next            `json:"next"`
}

// StageError wraps a gateway failure with the stage it happened in.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
