package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"handnotes-backend/internal/shared/apperr"
	"handnotes-backend/internal/shared/storage/object"
	"handnotes-backend/internal/shared/storage/object/local"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

type recordingStore struct {
	object.ObjectStore
	puts    int
	deletes []string
}

func (s *recordingStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	s.puts++
	return s.ObjectStore.Put(ctx, key, contentType, r)
}

func (s *recordingStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return s.ObjectStore.Delete(ctx, key)
}

type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) Create(context.Context, Document) error {
	return errors.New("insert failed")
}

func newTestStore(t *testing.T) *recordingStore {
	t.Helper()
	return &recordingStore{ObjectStore: local.New(t.TempDir(), "http://localhost:8080")}
}

func pngUpload(size int) Upload {
	body := append([]byte{}, pngHeader...)
	body = append(body, bytes.Repeat([]byte{0}, size)...)
	return Upload{FileName: "photo.png", ContentType: "image/png", SizeBytes: int64(len(body)), Body: bytes.NewReader(body)}
}

func TestUploadStoresBlobAndRecord(t *testing.T) {
	store := newTestStore(t)
	repo := NewMemoryRepo()
	svc := NewService(store, repo)

	doc, err := svc.Upload(context.Background(), "user-1", pngUpload(2<<20))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.ContentType != "image/png" || !strings.HasSuffix(doc.StorageKey, ".png") {
		t.Fatalf("unexpected document %+v", doc)
	}
	if !strings.HasPrefix(doc.ImageURL, "http://localhost:8080/files/") {
		t.Fatalf("unexpected image url %q", doc.ImageURL)
	}
	if doc.ExtractedText != nil || doc.Analysis != nil {
		t.Fatalf("expected empty derived fields")
	}
	stored, err := repo.Get(context.Background(), "user-1", doc.ID)
	if err != nil || stored.StorageKey != doc.StorageKey {
		t.Fatalf("record not stored: %v", err)
	}
}

func TestUploadRejectsDisallowedTypesWithoutStorageWrite(t *testing.T) {
	cases := []Upload{
		{FileName: "a.gif", ContentType: "image/gif", SizeBytes: 6, Body: strings.NewReader("GIF89a")},
		{FileName: "a.pdf", ContentType: "application/pdf", SizeBytes: 8, Body: strings.NewReader("%PDF-1.4")},
		// declared png but the bytes are plain text
		{FileName: "a.png", ContentType: "image/png", SizeBytes: 5, Body: strings.NewReader("hello")},
	}
	for _, in := range cases {
		store := newTestStore(t)
		svc := NewService(store, NewMemoryRepo())
		_, err := svc.Upload(context.Background(), "user-1", in)
		if !errors.Is(err, apperr.ErrValidation) || !errors.Is(err, ErrInvalidType) {
			t.Fatalf("%s: expected invalid type validation error, got %v", in.FileName, err)
		}
		if store.puts != 0 {
			t.Fatalf("%s: expected no storage write", in.FileName)
		}
	}
}

func TestUploadRejectsOversizeBeforeStorage(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, NewMemoryRepo())

	in := pngUpload(MaxUploadSize)
	_, err := svc.Upload(context.Background(), "user-1", in)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	// size unknown up front is still caught while reading
	in = pngUpload(MaxUploadSize)
	in.SizeBytes = 0
	_, err = svc.Upload(context.Background(), "user-1", in)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge for streamed body, got %v", err)
	}
	if store.puts != 0 {
		t.Fatalf("expected no storage write, got %d", store.puts)
	}
}

func TestUploadDeletesBlobWhenRecordFails(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, failingRepo{NewMemoryRepo()})

	_, err := svc.Upload(context.Background(), "user-1", pngUpload(128))
	if !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if apperr.Message(err, "") != "Failed to create document record" {
		t.Fatalf("unexpected message %q", apperr.Message(err, ""))
	}
	if store.puts != 1 || len(store.deletes) != 1 {
		t.Fatalf("expected one put and one compensating delete, got %d/%d", store.puts, len(store.deletes))
	}
	if _, err := store.Open(context.Background(), store.deletes[0]); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected blob removed, got %v", err)
	}
}

func TestUploadRequiresUser(t *testing.T) {
	svc := NewService(newTestStore(t), NewMemoryRepo())
	if _, err := svc.Upload(context.Background(), "", pngUpload(8)); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
