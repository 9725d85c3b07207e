package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"easyanki/internal/config"
	"easyanki/internal/frames"
	"easyanki/internal/ocr"
	"easyanki/internal/testsupport"
	"easyanki/internal/workflow"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithTessdata("pol", "eng"))
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("EASYANKI_LANGUAGE", "")
	t.Setenv("TESSDATA_PREFIX", "")

	configPath := filepath.Join(homeDir, ".config", "easyanki", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nwork_dir = %q\nlog_dir = %q\n\n[ocr]\nlanguage = %q\ntessdata_prefix = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.WorkDir,
		cfg.Paths.LogDir,
		cfg.OCR.Language,
		cfg.OCR.TessdataPrefix,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

var bandTexts = map[uint8]string{
	50:  "Dzień dobry\nGood morning",
	200: "Dzien dobry\nGood morning",
	0:   "",
	120: "Do widzenia\nGoodbye",
}

func bandOpener(_ context.Context, _ string) (frames.Source, frames.Info, error) {
	var images []*image.Gray
	for _, part := range []struct {
		band  uint8
		count int
	}{{50, 5}, {200, 5}, {0, 2}, {120, 6}} {
		for range part.count {
			images = append(images, testsupport.BandImage(16, 100, part.band))
		}
	}
	info := frames.Info{Width: 16, Height: 100, FPS: 25, FrameCount: int64(len(images))}
	return frames.NewSliceSource(images...), info, nil
}

func bandEngine() ocr.Engine {
	return ocr.Func(func(_ context.Context, img *image.Gray, _ string) (string, error) {
		return bandTexts[testsupport.BandValue(img)], nil
	})
}

type fileExtractor struct{}

func (fileExtractor) Audio(_ context.Context, _ string, dst string, _, _ float64) error {
	return os.WriteFile(dst, []byte("aac"), 0o644)
}

func (fileExtractor) Frame(_ context.Context, _ string, dst string, _ float64, _ int) error {
	return os.WriteFile(dst, []byte("jpg"), 0o644)
}

// withFakePipeline swaps the decoder, OCR engine and extractor for in-memory
// fakes.
func withFakePipeline(c *commandContext) {
	c.managerOptions = []workflow.Option{
		workflow.WithSourceOpener(bandOpener),
		workflow.WithOCREngine(bandEngine()),
		workflow.WithExtractor(fileExtractor{}),
	}
	c.segmentizeHook = func(opts *workflow.SegmentizeOptions) {
		opts.Open = bandOpener
		opts.Engine = bandEngine()
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(withFakePipeline)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
