package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"easyanki/internal/config"
)

// Options configures New. Records go to Writer (stderr when nil) and, when
// File is set, are also appended to that file in the same format.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
	File   string
}

// New builds a logger from opts. Debug level adds source locations to
// console output.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	primary, err := newHandler(w, opts.Format, level, level <= slog.LevelDebug)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.File) == "" {
		return slog.New(primary), nil
	}
	file, _, err := NewFileHandler(opts.File, opts.Format, opts.Level)
	if err != nil {
		return nil, err
	}
	return slog.New(newTeeHandler(primary, file)), nil
}

// NewFromConfig logs to stderr and, when a log directory is configured, to
// easyanki.log inside it.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if cfg.Paths.LogDir != "" {
		opts.File = filepath.Join(cfg.Paths.LogDir, "easyanki.log")
	}
	return New(opts)
}

// NewFileHandler appends to the log file at path, creating its directory,
// and returns the handler together with the file so the caller can close it.
func NewFileHandler(path, format, level string) (slog.Handler, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	lv := parseLevel(level)
	handler, err := newHandler(file, format, lv, lv <= slog.LevelDebug)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return handler, file, nil
}

func newHandler(w io.Writer, format string, level slog.Level, addSource bool) (slog.Handler, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		return newConsoleHandler(w, level, addSource), nil
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			AddSource:   addSource,
			ReplaceAttr: jsonAttr,
		}), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

// parseLevel maps a configured level name to slog; unknown names mean info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
