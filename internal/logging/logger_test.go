package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.With(slog.String(FieldComponent, "pipeline")).Info("run started", slog.Int("records", 42))

	line := buf.String()
	if !strings.Contains(line, " INFO pipeline: run started") {
		t.Errorf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "records=42") {
		t.Errorf("missing attribute in console line: %q", line)
	}
}

func TestNewConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("uploaded", slog.Int("links", 3))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json output not parseable: %v (%q)", err, buf.String())
	}
	if decoded["msg"] != "uploaded" {
		t.Errorf("msg = %v", decoded["msg"])
	}
	if decoded["level"] != "info" {
		t.Errorf("level = %v, want lowercase", decoded["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := WithRunID(context.Background(), "run-123")
	WithContext(ctx, logger).Info("step")

	if !strings.Contains(buf.String(), "run_id=run-123") {
		t.Errorf("run id missing from output: %q", buf.String())
	}
}
