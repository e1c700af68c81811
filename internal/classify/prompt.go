package classify

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

const (
	LocalePtBR    = "pt-BR"
	LocaleEnUS    = "en-US"
	DefaultLocale = LocalePtBR
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// SupportedLocale reports whether a prompt exists for locale.
func SupportedLocale(locale string) bool {
	return locale == LocalePtBR || locale == LocaleEnUS
}

// BuildPrompt renders the classification prompt for locale, falling back to DefaultLocale.
func BuildPrompt(locale, text string) (string, error) {
	if !SupportedLocale(locale) {
		locale = DefaultLocale
	}
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, locale+".tmpl", struct{ Text string }{text}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
