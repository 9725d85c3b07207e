package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"easyanki/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.OCR.TessdataPrefix = filepath.Join(base, "tessdata")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		for _, name := range names {
			writeStub(b.t, b.baseDir, name, "exit 0\n")
		}
	}
}

// WithStubScript writes a stub executable whose body is the given shell
// script and prepends its directory to PATH.
func WithStubScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		writeStub(b.t, b.baseDir, name, body)
	}
}

// WithTessdata creates trained-data placeholder files for the given
// tesseract language codes under the configured tessdata prefix.
func WithTessdata(codes ...string) ConfigOption {
	return func(b *configBuilder) {
		dir := b.cfg.OCR.TessdataPrefix
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir tessdata: %v", err)
		}
		for _, code := range codes {
			WriteFile(b.t, filepath.Join(dir, code+".traineddata"), 16)
		}
	}
}

func writeStub(t testing.TB, baseDir, name, body string) {
	t.Helper()
	binDir := filepath.Join(baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	script := []byte("#!/bin/sh\n" + body)
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, script, 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	oldPath := os.Getenv("PATH")
	if parts := filepath.SplitList(oldPath); len(parts) > 0 && parts[0] == binDir {
		return
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath)
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
