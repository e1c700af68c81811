package health

import (
	"context"
	"errors"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		ready  bool
		wantOK bool
		wantDB string
		wantAI string
	}{
		{name: "memory", wantOK: true, wantDB: "memory", wantAI: "not_configured"},
		{name: "db ok", db: pingFunc(func(context.Context) error { return nil }), ready: true, wantOK: true, wantDB: "ok", wantAI: "gemini"},
		{name: "db down", db: pingFunc(func(context.Context) error { return errors.New("refused") }), wantOK: false, wantDB: "unreachable", wantAI: "not_configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(nil, "local", "gemini", tt.ready)
			if tt.db != nil {
				svc.DB = tt.db
			}
			got := svc.Status(context.Background())
			if got.OK != tt.wantOK || got.Database != tt.wantDB || got.LLM != tt.wantAI {
				t.Fatalf("unexpected status %+v", got)
			}
		})
	}
}
