package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("OCR_MODEL", "")
	t.Setenv("PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.OCRModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected ocr model %q", cfg.OCRModel)
	}
	if cfg.PublicBaseURL != "http://localhost:9090" {
		t.Fatalf("unexpected public base url %q", cfg.PublicBaseURL)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("unexpected store type %q", cfg.ObjectStoreType)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "OCR_ENGINE=tesseract\nRATE_LIMIT_RPM=42\nDEFAULT_LOCALE=en-US\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("DEFAULT_LOCALE", "pt-BR")
	t.Setenv("OCR_ENGINE", "")
	t.Setenv("RATE_LIMIT_RPM", "")
	os.Unsetenv("OCR_ENGINE")
	os.Unsetenv("RATE_LIMIT_RPM")

	cfg := Load()
	if cfg.OCREngine != "tesseract" {
		t.Fatalf("expected tesseract from .env, got %q", cfg.OCREngine)
	}
	if cfg.RateLimitRPM != 42 {
		t.Fatalf("expected rpm 42, got %d", cfg.RateLimitRPM)
	}
	if cfg.DefaultLocale != "pt-BR" {
		t.Fatalf("process env should win, got %q", cfg.DefaultLocale)
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" a.example.com, ,b.example.com ")
	if len(got) != 2 || got[0] != "a.example.com" || got[1] != "b.example.com" {
		t.Fatalf("unexpected split result %v", got)
	}
}
