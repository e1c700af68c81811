package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"handnotes-backend/internal/shared/apperr"
)

func ptr(s string) *string { return &s }

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	svc := NewService(NewMemoryRepo(), LocaleEnUS)
	got := svc.Get(context.Background(), "u1")
	if got.Locale != LocaleEnUS || got.TaskFilter != FilterAll {
		t.Fatalf("unexpected defaults %+v", got)
	}
}

func TestNewServiceFallsBackToPortuguese(t *testing.T) {
	svc := NewService(NewMemoryRepo(), "fr-FR")
	if svc.Locale(context.Background(), "u1") != LocalePtBR {
		t.Fatalf("expected pt-BR fallback")
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, LocalePtBR)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	if _, err := svc.Update(context.Background(), "u1", Patch{TaskFilter: ptr(FilterPending)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Update(context.Background(), "u1", Patch{Locale: ptr(LocaleEnUS)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Locale != LocaleEnUS || got.TaskFilter != FilterPending || !got.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected settings %+v", got)
	}
	if svc.TaskFilter(context.Background(), "u1") != FilterPending {
		t.Fatalf("expected stored filter")
	}
	if svc.TaskFilter(context.Background(), "u2") != FilterAll {
		t.Fatalf("settings leaked across users")
	}
}

func TestUpdateRejectsUnknownValues(t *testing.T) {
	svc := NewService(NewMemoryRepo(), LocalePtBR)
	_, err := svc.Update(context.Background(), "u1", Patch{Locale: ptr("de-DE"), TaskFilter: ptr("done")})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	e, _ := apperr.As(err)
	if issues, ok := e.Details.([]map[string]string); !ok || len(issues) != 2 {
		t.Fatalf("expected two issues, got %#v", e.Details)
	}
}

type failingRepo struct{}

func (failingRepo) Get(context.Context, string) (Settings, error) {
	return Settings{}, errors.New("db down")
}
func (failingRepo) Upsert(context.Context, Settings) error { return errors.New("db down") }

func TestStoreFailures(t *testing.T) {
	svc := NewService(failingRepo{}, LocalePtBR)
	if got := svc.Get(context.Background(), "u1"); got.Locale != LocalePtBR {
		t.Fatalf("expected defaults on read failure, got %+v", got)
	}
	if _, err := svc.Update(context.Background(), "u1", Patch{}); !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}
