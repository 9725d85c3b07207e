package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"easyanki/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("EASYANKI_LANGUAGE", "")
	t.Setenv("TESSDATA_PREFIX", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "easyanki", "videos")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.CatalogPath() != filepath.Join(wantWork, "catalog.db") {
		t.Fatalf("unexpected catalog path: %q", cfg.CatalogPath())
	}
	if cfg.Segmentize.SimilarityCutoff != 0.95 {
		t.Fatalf("unexpected similarity cutoff: %v", cfg.Segmentize.SimilarityCutoff)
	}
	if cfg.Segmentize.CaptionTextSimilarityCutoff != 0.8 {
		t.Fatalf("unexpected caption text cutoff: %v", cfg.Segmentize.CaptionTextSimilarityCutoff)
	}
	if cfg.Segmentize.MinSegmentFrames != 3 {
		t.Fatalf("unexpected min segment frames: %d", cfg.Segmentize.MinSegmentFrames)
	}
	if !cfg.Segmentize.FlushTrailingSegment {
		t.Fatal("expected trailing segment flush enabled by default")
	}
	if cfg.OCR.Language != "pl" || !cfg.OCR.Bilingual {
		t.Fatalf("unexpected OCR defaults: %+v", cfg.OCR)
	}
	if cfg.OCR.TessdataPrefix != "" {
		t.Fatalf("expected empty tessdata prefix, got %q", cfg.OCR.TessdataPrefix)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "easyanki.toml")
	t.Setenv("EASYANKI_LANGUAGE", "")

	type payload struct {
		Paths struct {
			WorkDir string `toml:"work_dir"`
		} `toml:"paths"`
		Segmentize struct {
			SimilarityCutoff     float64 `toml:"similarity_cutoff"`
			MinSegmentFrames     int     `toml:"min_segment_frames"`
			FlushTrailingSegment bool    `toml:"flush_trailing_segment"`
		} `toml:"segmentize"`
		OCR struct {
			Language  string `toml:"language"`
			Bilingual bool   `toml:"bilingual"`
		} `toml:"ocr"`
		Cards struct {
			Tags []string `toml:"tags"`
		} `toml:"cards"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.WorkDir = filepath.Join(tempDir, "work")
	custom.Segmentize.SimilarityCutoff = 0.9
	custom.Segmentize.MinSegmentFrames = 5
	custom.OCR.Language = "French"
	custom.Cards.Tags = []string{"french", " easy languages ", "french"}
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempDir, "work") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.Segmentize.SimilarityCutoff != 0.9 {
		t.Fatalf("expected similarity cutoff 0.9, got %v", cfg.Segmentize.SimilarityCutoff)
	}
	if cfg.Segmentize.MinSegmentFrames != 5 {
		t.Fatalf("expected min segment frames 5, got %d", cfg.Segmentize.MinSegmentFrames)
	}
	if cfg.Segmentize.FlushTrailingSegment {
		t.Fatal("expected trailing flush disabled by file")
	}
	if cfg.OCR.Language != "french" {
		t.Fatalf("expected lowercased language, got %q", cfg.OCR.Language)
	}
	if strings.Join(cfg.Cards.Tags, ",") != "french,easy_languages" {
		t.Fatalf("unexpected tags: %v", cfg.Cards.Tags)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestEnvVarOverridesLanguageAndTessdata(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "easyanki.toml")
	if err := os.WriteFile(configPath, []byte("[ocr]\nlanguage = \"pl\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tessdata := filepath.Join(tempDir, "tessdata")
	t.Setenv("EASYANKI_LANGUAGE", "de")
	t.Setenv("TESSDATA_PREFIX", tessdata)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OCR.Language != "de" {
		t.Fatalf("expected env language, got %q", cfg.OCR.Language)
	}
	if cfg.OCR.TessdataPrefix != tessdata {
		t.Fatalf("expected tessdata prefix from env, got %q", cfg.OCR.TessdataPrefix)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "caption_text_similarity_cutoff") {
		t.Fatalf("sample config missing caption text cutoff: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Segmentize != config.Default().Segmentize {
		t.Fatalf("sample segmentize section drifted from defaults: %+v", cfg.Segmentize)
	}

	if runtime.GOOS != "windows" {
		if !strings.Contains(cfg.Paths.WorkDir, "easyanki") {
			t.Fatalf("expected work dir to contain easyanki, got %q", cfg.Paths.WorkDir)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"similarity cutoff above one", func(c *config.Config) { c.Segmentize.SimilarityCutoff = 1.5 }},
		{"similarity cutoff below minus one", func(c *config.Config) { c.Segmentize.SimilarityCutoff = -2 }},
		{"text cutoff negative", func(c *config.Config) { c.Segmentize.CaptionTextSimilarityCutoff = -0.1 }},
		{"zero min frames", func(c *config.Config) { c.Segmentize.MinSegmentFrames = 0 }},
		{"negative min seconds", func(c *config.Config) { c.Segmentize.MinSegmentSeconds = -1 }},
		{"unknown language", func(c *config.Config) { c.OCR.Language = "" }},
		{"negative padding", func(c *config.Config) { c.Cards.AudioPaddingSeconds = -0.5 }},
		{"negative frame width", func(c *config.Config) { c.Cards.FrameWidth = -1 }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "easyanki.toml")
	content := "[segmentize]\nsimilarity_cutof = 0.9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected misspelled key to be rejected")
	}
	if !strings.Contains(err.Error(), "similarity_cutof") {
		t.Fatalf("error should name the unknown key: %v", err)
	}
}

func TestToolBinaries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "easyanki.toml")
	content := "[paths]\nwork_dir = " + strconv.Quote(filepath.Join(dir, "work")) +
		"\n\n[tools]\nffmpeg = " + strconv.Quote(filepath.Join(dir, "bin", "..", "bin", "ffmpeg")) +
		"\nffprobe = \"ffprobe-6\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cfg.FFmpegBinary(), filepath.Join(dir, "bin", "ffmpeg"); got != want {
		t.Fatalf("FFmpegBinary() = %q, want %q", got, want)
	}
	if got := cfg.FFprobeBinary(); got != "ffprobe-6" {
		t.Fatalf("FFprobeBinary() = %q, want bare name kept", got)
	}
	if got := config.Default(); got.FFmpegBinary() != "ffmpeg" || got.FFprobeBinary() != "ffprobe" {
		t.Fatal("defaults should use PATH lookup names")
	}
}
