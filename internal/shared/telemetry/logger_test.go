package telemetry

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestErrorWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Error("pipeline.best_effort_failed", map[string]any{"target": "tasks", "count": 2})

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log json: %v (%q)", err, buf.String())
	}
	if payload["level"] != "error" {
		t.Fatalf("unexpected level %v", payload["level"])
	}
	if payload["msg"] != "pipeline.best_effort_failed" {
		t.Fatalf("unexpected msg %v", payload["msg"])
	}
	if payload["target"] != "tasks" {
		t.Fatalf("unexpected target %v", payload["target"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
}
