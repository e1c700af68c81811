package ocr

import (
	"context"
	"errors"
	"testing"

	"handnotes-backend/internal/llm"
	"handnotes-backend/internal/shared/apperr"
)

type fakeFetcher struct {
	img   Image
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, imageURL string) (Image, error) {
	f.calls++
	return f.img, f.err
}

type fakeEngine struct {
	text string
	err  error
	got  Image
}

func (e *fakeEngine) Recognize(ctx context.Context, img Image) (string, error) {
	e.got = img
	return e.text, e.err
}

func TestExtractTextTrimsResult(t *testing.T) {
	engine := &fakeEngine{text: "  Buy milk\n"}
	gw := &Gateway{Fetcher: &fakeFetcher{img: Image{Data: []byte("not an image"), MimeType: "image/png"}}, Engine: engine}

	text, err := gw.ExtractText(context.Background(), "https://cdn.example.com/a.png")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "Buy milk" {
		t.Fatalf("unexpected text %q", text)
	}
	if string(engine.got.Data) != "not an image" {
		t.Fatalf("expected undecodable image to pass through unchanged")
	}
}

func TestExtractTextErrors(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		hosts    []string
		fetchErr error
		text     string
		engErr   error
		noEngine bool
		noKey    bool
		wantKind error
		wantMsg  string
		fetches  int
	}{
		{name: "bad url", url: "not a url", wantKind: apperr.ErrValidation, wantMsg: "Invalid request data"},
		{name: "ftp scheme", url: "ftp://example.com/a.png", wantKind: apperr.ErrValidation, wantMsg: "Invalid request data"},
		{name: "host not allowed", url: "https://evil.example.com/a.png", hosts: []string{"cdn.example.com"}, wantKind: apperr.ErrValidation},
		{name: "fetch failed", url: "https://cdn.example.com/a.png", fetchErr: errors.New("404"), wantKind: apperr.ErrFetch, wantMsg: "Failed to fetch image", fetches: 1},
		{name: "blank text", url: "https://cdn.example.com/a.png", text: "   \n\t", wantKind: apperr.ErrEmptyResult, wantMsg: "No text found in image", fetches: 1},
		{name: "empty response", url: "https://cdn.example.com/a.png", engErr: llm.ErrEmptyResponse, wantKind: apperr.ErrEmptyResult, fetches: 1},
		{name: "provider missing", url: "https://cdn.example.com/a.png", engErr: llm.ErrNotConfigured, wantKind: apperr.ErrNotConfigured, wantMsg: "OCR service not configured", fetches: 1},
		{name: "no engine", url: "https://cdn.example.com/a.png", noEngine: true, wantKind: apperr.ErrNotConfigured},
		{name: "provider missing and image unreachable", url: "https://cdn.example.com/a.png", fetchErr: errors.New("dial tcp: timeout"), noKey: true, wantKind: apperr.ErrNotConfigured, wantMsg: "OCR service not configured"},
		{name: "vision engine without key", url: "https://cdn.example.com/a.png", noKey: true, wantKind: apperr.ErrNotConfigured, wantMsg: "OCR service not configured"},
		{name: "engine failure", url: "https://cdn.example.com/a.png", engErr: errors.New("boom"), wantKind: apperr.ErrService, fetches: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{img: Image{Data: []byte("x")}, err: tt.fetchErr}
			gw := &Gateway{Fetcher: fetcher, AllowedHosts: tt.hosts}
			switch {
			case tt.noKey:
				gw.Engine = &VisionEngine{LLM: llm.PlaceholderClient{}}
			case !tt.noEngine:
				gw.Engine = &fakeEngine{text: tt.text, err: tt.engErr}
			}
			_, err := gw.ExtractText(context.Background(), tt.url)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("expected kind %v, got %v", tt.wantKind, err)
			}
			if tt.wantMsg != "" && apperr.Message(err, "") != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, apperr.Message(err, ""))
			}
			if fetcher.calls != tt.fetches {
				t.Fatalf("expected %d fetches, got %d", tt.fetches, fetcher.calls)
			}
		})
	}
}

func TestAllowedHostMatchesCaseInsensitive(t *testing.T) {
	gw := &Gateway{
		Fetcher:      &fakeFetcher{img: Image{Data: []byte("x")}},
		Engine:       &fakeEngine{text: "ok"},
		AllowedHosts: []string{"CDN.example.com"},
	}
	if _, err := gw.ExtractText(context.Background(), "https://cdn.example.com:8443/a.png"); err != nil {
		t.Fatalf("expected allowed host, got %v", err)
	}
}

type recordingLLM struct {
	req llm.Request
}

func (r *recordingLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	r.req = req
	return "text", nil
}

func TestVisionEngineSendsFixedPrompt(t *testing.T) {
	client := &recordingLLM{}
	engine := &VisionEngine{LLM: client}
	if _, err := engine.Recognize(context.Background(), Image{Data: []byte("img"), MimeType: "image/webp"}); err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if client.req.Prompt != Prompt {
		t.Fatalf("unexpected prompt %q", client.req.Prompt)
	}
	if client.req.Image == nil || client.req.Image.MimeType != "image/webp" {
		t.Fatalf("expected image to be attached")
	}
	if client.req.Temperature == nil || *client.req.Temperature != 0.4 {
		t.Fatalf("expected temperature 0.4")
	}
	if client.req.JSON {
		t.Fatalf("OCR must not request JSON output")
	}
}

func TestVisionEngineReady(t *testing.T) {
	if err := (&VisionEngine{}).Ready(); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("nil client: expected ErrNotConfigured, got %v", err)
	}
	if err := (&VisionEngine{LLM: llm.PlaceholderClient{}}).Ready(); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("placeholder: expected ErrNotConfigured, got %v", err)
	}
	if err := (&VisionEngine{LLM: &recordingLLM{}}).Ready(); err != nil {
		t.Fatalf("real client: expected ready, got %v", err)
	}
}
