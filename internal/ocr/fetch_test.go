package ocr

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"handnotes-backend/internal/shared/storage/object/local"
)

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/png":
			w.Header().Set("Content-Type", "image/png; charset=binary")
			_, _ = w.Write([]byte("png-bytes"))
		case "/untyped":
			w.Header()["Content-Type"] = nil
			_, _ = w.Write([]byte("raw"))
		case "/big":
			_, _ = w.Write(bytes.Repeat([]byte("a"), 64))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewHTTPFetcher()

	img, err := f.Fetch(context.Background(), server.URL+"/png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if img.MimeType != "image/png" || string(img.Data) != "png-bytes" {
		t.Fatalf("unexpected image %+v", img)
	}

	img, err = f.Fetch(context.Background(), server.URL+"/untyped")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if img.MimeType != "image/jpeg" {
		t.Fatalf("expected default mime type, got %q", img.MimeType)
	}

	if _, err := f.Fetch(context.Background(), server.URL+"/missing"); err == nil {
		t.Fatalf("expected error for 404")
	}

	small := &HTTPFetcher{MaxBytes: 16}
	if _, err := small.Fetch(context.Background(), server.URL+"/big"); err == nil {
		t.Fatalf("expected error for oversize body")
	}
}

func TestStoreFetcherReadsOwnUploads(t *testing.T) {
	store := local.New(t.TempDir(), "http://localhost:8080")
	key := "abc/one.png"
	if _, err := store.Put(context.Background(), key, "image/png", bytes.NewReader([]byte("blob"))); err != nil {
		t.Fatalf("Put: %v", err)
	}
	next := &fakeFetcher{img: Image{Data: []byte("remote")}}
	f := &StoreFetcher{Store: store, Prefix: "http://localhost:8080/files", Next: next}

	img, err := f.Fetch(context.Background(), "http://localhost:8080/files/"+key)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(img.Data) != "blob" || img.MimeType != "image/png" {
		t.Fatalf("unexpected image %+v", img)
	}
	if next.calls != 0 {
		t.Fatalf("expected local read without delegating")
	}

	img, err = f.Fetch(context.Background(), "https://cdn.example.com/x.jpg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(img.Data) != "remote" || next.calls != 1 {
		t.Fatalf("expected delegation to next fetcher")
	}
}
