package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"easyanki/internal/config"
	"easyanki/internal/logging"
	"easyanki/internal/services"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("info message")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "easyanki.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "info message") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format: "console",
		Level:  "info",
		Writer: io.Discard,
		File:   logPath,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format: "console",
		Level:  "debug",
		Writer: io.Discard,
		File:   logPath,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerFormatsSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-fields.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: io.Discard, File: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "segmentize")
	logger.Info("segments written",
		logging.String(logging.FieldVideoKey, "abc123"),
		logging.String(logging.FieldStage, "segmentized"),
		logging.Int("written", 1234),
		logging.Int64("output_bytes", 2048),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{"[segmentize]", "abc123 (segmentized)", "segments written", "Written: 1,234", "Output: 2.0 kB"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in console output, got %q", want, text)
		}
	}
}

func TestNewJSONLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Writer: io.Discard, File: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if record["msg"] != "json message" || record["k"] != "v" || record["level"] != "info" {
		t.Fatalf("unexpected json record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in json record: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", Writer: io.Discard, File: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug to be disabled")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info to be enabled")
	}
}

func TestNewFileHandler(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "run.log")
	handler, closer, err := logging.NewFileHandler(logPath, "json", "info")
	if err != nil {
		t.Fatalf("NewFileHandler returned error: %v", err)
	}
	slog.New(handler).Info("to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"to file"`) {
		t.Fatalf("unexpected file content %q", content)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithVideoKey(ctx, "abc123")
	ctx = services.WithStage(ctx, "segmentized")
	ctx = services.WithRequestID(ctx, "req-xyz")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WithContext(ctx, logger).Info("contextual log")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	assertField := func(key string, want string) {
		got, ok := record[key]
		if !ok {
			t.Fatalf("field %s not found", key)
		}
		if got != want {
			t.Fatalf("field %s = %v, want %v", key, got, want)
		}
	}
	assertField(logging.FieldVideoKey, "abc123")
	assertField(logging.FieldStage, "segmentized")
	assertField(logging.FieldCorrelationID, "req-xyz")
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "ocr failed", "ocr_failed", logging.String(logging.FieldImpact, "segment text left empty"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record[logging.FieldEventType] != "ocr_failed" {
		t.Fatalf("unexpected event type: %v", record[logging.FieldEventType])
	}
	if record[logging.FieldErrorHint] != "check logs for details" {
		t.Fatalf("expected default hint, got %v", record[logging.FieldErrorHint])
	}
	if record[logging.FieldImpact] != "segment text left empty" {
		t.Fatalf("impact should not be overridden, got %v", record[logging.FieldImpact])
	}
}

func TestConsoleLoggerFieldLayoutByLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-levels.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: io.Discard, File: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("segment written",
		logging.String(logging.FieldCorrelationID, "run-1"),
		logging.String("text", "Dzień dobry"),
	)
	logger.Debug("boundary", logging.Int("frame", 42), logging.Group("ssim", logging.Float64("score", 0.5)))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{`Text: "Dzień dobry"`, "+1 hidden", "frame=42", "ssim.score=0.5"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in console output, got %q", want, text)
		}
	}
	if strings.Contains(text, "run-1") {
		t.Fatalf("correlation id should stay out of info lines, got %q", text)
	}
}
