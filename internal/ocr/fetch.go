package ocr

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"handnotes-backend/internal/shared/storage/object"
)

// Image is a fetched image with its MIME type.
type Image struct {
	Data     []byte
	MimeType string
}

// Fetcher retrieves the bytes behind an image URL.
type Fetcher interface {
	Fetch(ctx context.Context, imageURL string) (Image, error)
}

// HTTPFetcher downloads images over HTTP(S).
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// NewHTTPFetcher returns a fetcher with a 30s timeout and the default size cap.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: 30 * time.Second}, MaxBytes: MaxImageBytes}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, imageURL string) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return Image{}, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Image{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Image{}, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	data, err := readCapped(resp.Body, f.maxBytes())
	if err != nil {
		return Image{}, err
	}
	return Image{Data: data, MimeType: mimeOrDefault(resp.Header.Get("Content-Type"))}, nil
}

func (f *HTTPFetcher) maxBytes() int64 {
	if f.MaxBytes > 0 {
		return f.MaxBytes
	}
	return MaxImageBytes
}

// StoreFetcher reads URLs under Prefix straight from the object store and hands
// everything else to Next. It lets the service OCR its own uploads without a
// loopback HTTP request.
type StoreFetcher struct {
	Store  object.ObjectStore
	Prefix string
	Next   Fetcher
}

func (f *StoreFetcher) Fetch(ctx context.Context, imageURL string) (Image, error) {
	prefix := strings.TrimRight(f.Prefix, "/") + "/"
	if f.Prefix == "" || !strings.HasPrefix(imageURL, prefix) {
		if f.Next == nil {
			return Image{}, fmt.Errorf("fetch image: no fetcher for %s", imageURL)
		}
		return f.Next.Fetch(ctx, imageURL)
	}
	key := strings.TrimPrefix(imageURL, prefix)
	rc, err := f.Store.Open(ctx, key)
	if err != nil {
		return Image{}, err
	}
	defer rc.Close()

	data, err := readCapped(rc, MaxImageBytes)
	if err != nil {
		return Image{}, err
	}
	return Image{Data: data, MimeType: mimeOrDefault(mime.TypeByExtension(extOf(key)))}, nil
}

func readCapped(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("fetch image: larger than %d bytes", max)
	}
	return data, nil
}

func mimeOrDefault(raw string) string {
	ct := strings.TrimSpace(raw)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" {
		return "image/jpeg"
	}
	return strings.ToLower(ct)
}

func extOf(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[i:]
	}
	return ""
}
