package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handnotes-backend/internal/bootstrap"
	"handnotes-backend/internal/shared/config"
)

func withMemoryApp(t *testing.T) *bootstrap.App {
	t.Helper()
	app, err := bootstrap.Build(config.Config{
		Env:             "dev",
		PublicBaseURL:   "http://notes.test",
		LocalStoreDir:   t.TempDir(),
		ObjectStoreType: "local",
		JWTSecret:       "test-secret",
		SessionTTLHours: 1,
	})
	require.NoError(t, err)
	old := buildApp
	buildApp = func(context.Context) (*bootstrap.App, error) { return app, nil }
	t.Cleanup(func() { buildApp = old })
	return app
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { taskStatus = "" })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTasksEmptyList(t *testing.T) {
	withMemoryApp(t)

	out, err := run(t, "tasks", "--user", "cli-user")
	require.NoError(t, err)

	var got struct {
		Filter string            `json:"filter"`
		Tasks  []json.RawMessage `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "all", got.Filter)
	assert.Empty(t, got.Tasks)
}

func TestTasksRejectsUnknownStatus(t *testing.T) {
	withMemoryApp(t)

	_, err := run(t, "tasks", "--user", "cli-user", "--status", "done")
	assert.Error(t, err)
}

func TestProcessWithoutProviderFails(t *testing.T) {
	withMemoryApp(t)
	path := filepath.Join(t.TempDir(), "note.png")
	require.NoError(t, os.WriteFile(path, append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 32)...), 0o600))

	_, err := run(t, "process", path, "--user", "cli-user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ocr")
}
