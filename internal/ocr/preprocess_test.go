package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestPreprocessDownscalesLongestSide(t *testing.T) {
	out := Preprocess(Image{Data: pngOf(t, 400, 100), MimeType: "image/png"}, 200)
	if out.MimeType != "image/png" {
		t.Fatalf("expected png output, got %q", out.MimeType)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 50 {
		t.Fatalf("expected 200x50, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestPreprocessKeepsSmallImageSize(t *testing.T) {
	out := Preprocess(Image{Data: pngOf(t, 120, 80), MimeType: "image/png"}, 0)
	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 120 || cfg.Height != 80 {
		t.Fatalf("expected 120x80, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestPreprocessPassesThroughUndecodable(t *testing.T) {
	in := Image{Data: []byte("garbage"), MimeType: "image/jpeg"}
	out := Preprocess(in, 100)
	if !bytes.Equal(out.Data, in.Data) || out.MimeType != in.MimeType {
		t.Fatalf("expected input to pass through")
	}
}
