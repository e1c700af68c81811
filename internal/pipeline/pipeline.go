// Package pipeline runs upload, OCR and classification in sequence and persists the outcome.
package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"handnotes-backend/internal/classify"
	"handnotes-backend/internal/documents"
	"handnotes-backend/internal/notes"
	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/metrics"
	"handnotes-backend/internal/shared/telemetry"
	"handnotes-backend/internal/tasks"
)

type Storage interface {
	Upload(ctx context.Context, userID string, in documents.Upload) (documents.Document, error)
}

type OCR interface {
	ExtractText(ctx context.Context, imageURL string) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, in classify.Input) (classify.Result, error)
}

type DocumentWriter interface {
	SetExtractedText(ctx context.Context, userID, id, text string) error
	SetAnalysis(ctx context.Context, userID, id string, analysis json.RawMessage) error
}

type TaskWriter interface {
	CreateForDocument(ctx context.Context, userID, documentID string, items []tasks.NewTask) ([]tasks.Task, error)
}

type NoteWriter interface {
	CreateForDocument(ctx context.Context, userID, documentID string, items []notes.NewNote) ([]notes.Note, error)
}

type LocaleSource interface {
	Locale(ctx context.Context, userID string) string
}

// DefaultNext is the navigation hint returned on success.
var DefaultNext = Next{Path: "/dashboard", DelayMs: 2000}

// Pipeline wires the gateways and the repositories for a run.
type Pipeline struct {
	Storage    Storage
	OCR        OCR
	Classifier Classifier
	Documents  DocumentWriter
	Tasks      TaskWriter
	Notes      NoteWriter
	Locales    LocaleSource
	Observer   Observer
	Now        func() time.Time
}

// Run processes one upload for userID. Gateway failures abort the run and
// return a *StageError. Persistence after a gateway succeeded is best-effort:
// failures are reported in Result.Warnings and never abort the run.
func (p *Pipeline) Run(ctx context.Context, userID string, in documents.Upload) (Result, error) {
	if strings.TrimSpace(userID) == "" {
		return Result{State: StateIdle}, apperr.New(apperr.ErrUnauthorized, "Unauthorized")
	}

	r := &run{p: p, userID: userID, startedAt: p.now(), warnings: []Warning{}}
	r.machine = NewMachine(r.logChange, p.Observer)
	metrics.IncPipelineStarted()

	r.advance(EventStart)

	var doc documents.Document
	if err := r.stage(StateUploading, "storage", func() error {
		var err error
		doc, err = p.Storage.Upload(ctx, userID, in)
		return err
	}); err != nil {
		return r.fail(err)
	}
	r.documentID = doc.ID
	r.advance(EventUploaded)

	var text string
	if err := r.stage(StateOCR, "ocr", func() error {
		var err error
		text, err = p.OCR.ExtractText(ctx, doc.ImageURL)
		return err
	}); err != nil {
		return r.fail(err)
	}
	r.bestEffort(TargetExtractedText, func() error {
		return p.Documents.SetExtractedText(ctx, userID, doc.ID, text)
	})
	r.advance(EventExtracted)

	locale := classify.DefaultLocale
	if p.Locales != nil {
		locale = p.Locales.Locale(ctx, userID)
	}
	var analysis classify.Result
	if err := r.stage(StateAnalyzing, "classify", func() error {
		var err error
		analysis, err = p.Classifier.Classify(ctx, classify.Input{Text: text, DocumentID: doc.ID, Locale: locale})
		return err
	}); err != nil {
		return r.fail(err)
	}

	r.bestEffort(TargetTasks, func() error {
		_, err := p.Tasks.CreateForDocument(ctx, userID, doc.ID, toNewTasks(analysis.Tasks))
		return err
	})
	r.bestEffort(TargetNotes, func() error {
		_, err := p.Notes.CreateForDocument(ctx, userID, doc.ID, toNewNotes(analysis.Notes))
		return err
	})
	r.bestEffort(TargetAnalysis, func() error {
		blob, err := json.Marshal(analysis)
		if err != nil {
			return err
		}
		return p.Documents.SetAnalysis(ctx, userID, doc.ID, blob)
	})
	r.advance(EventAnalyzed)

	metrics.IncPipelineSucceeded()
	telemetry.Info("pipeline.done", map[string]any{
		"user_id":     userID,
		"document_id": doc.ID,
		"tasks":       len(analysis.Tasks),
		"notes":       len(analysis.Notes),
		"warnings":    len(r.warnings),
		"duration_ms": p.now().Sub(r.startedAt).Milliseconds(),
	})

	return Result{
		State:         r.machine.State(),
		DocumentID:    doc.ID,
		ImageURL:      doc.ImageURL,
		ExtractedText: text,
		Tasks:         analysis.Tasks,
		Notes:         analysis.Notes,
		Summary:       analysis.Summary,
		Warnings:      r.warnings,
		Next:          DefaultNext,
	}, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// run holds the per-call state so a Pipeline can serve concurrent requests.
type run struct {
	p          *Pipeline
	machine    *Machine
	userID     string
	documentID string
	startedAt  time.Time
	warnings   []Warning
}

func (r *run) stage(state State, gateway string, fn func() error) error {
	start := r.p.now()
	err := fn()
	metrics.ObserveStageDurationMs(string(state), float64(r.p.now().Sub(start).Milliseconds()))
	if err != nil {
		kind := "unknown"
		if k := apperr.KindOf(err); k != nil {
			kind = k.Error()
		}
		metrics.IncGatewayError(gateway, kind)
		return &StageError{Stage: state, Err: err}
	}
	return nil
}

// advance fires e. A rejected transition means the stage order and the
// transition table disagree; it is logged and the state is left unchanged.
func (r *run) advance(e Event) {
	if err := r.machine.Fire(e); err != nil {
		telemetry.Error("pipeline.invalid_transition", map[string]any{
			"user_id":     r.userID,
			"document_id": r.documentID,
			"state":       string(r.machine.State()),
			"event":       string(e),
			"error":       err.Error(),
		})
	}
}

func (r *run) fail(err error) (Result, error) {
	stage := r.machine.State()
	r.advance(EventFail)
	metrics.IncPipelineFailed()
	telemetry.Error("pipeline.failed", map[string]any{
		"user_id":     r.userID,
		"document_id": r.documentID,
		"stage":       string(stage),
		"error":       err.Error(),
	})
	return Result{State: r.machine.State(), DocumentID: r.documentID}, err
}

func (r *run) bestEffort(target string, fn func() error) {
	if err := fn(); err != nil {
		metrics.IncBestEffortFailure(target)
		telemetry.Error("pipeline.best_effort_failed", map[string]any{
			"user_id":     r.userID,
			"document_id": r.documentID,
			"target":      target,
			"error":       err.Error(),
		})
		r.warnings = append(r.warnings, Warning{Target: target, Message: "failed to save " + strings.ReplaceAll(target, "_", " ")})
	}
}

func (r *run) logChange(ch Change) {
	telemetry.Info("pipeline.state", map[string]any{
		"user_id":           r.userID,
		"document_id":       r.documentID,
		"event":             string(ch.Event),
		"status_transition": string(ch.From) + "->" + string(ch.To),
	})
}

func toNewTasks(in []classify.Task) []tasks.NewTask {
	out := make([]tasks.NewTask, 0, len(in))
	for _, t := range in {
		nt := tasks.NewTask{Title: t.Title, Description: t.Description}
		if t.Priority != nil {
			p := tasks.Priority(*t.Priority)
			nt.Priority = &p
		}
		if t.DueDate != nil {
			if due, err := classify.ParseDueDate(*t.DueDate); err == nil {
				nt.DueDate = &due
			}
		}
		out = append(out, nt)
	}
	return out
}

func toNewNotes(in []classify.Note) []notes.NewNote {
	out := make([]notes.NewNote, 0, len(in))
	for _, n := range in {
		out = append(out, notes.NewNote{Title: n.Title, Content: n.Content})
	}
	return out
}
