package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Segmentize contains the caption segmentation thresholds.
type Segmentize struct {
	// SimilarityCutoff is the SSIM score below which two consecutive subtitle
	// regions are considered different captions. Range [-1, 1].
	SimilarityCutoff float64 `toml:"similarity_cutoff"`
	// CaptionTextSimilarityCutoff is the normalized Levenshtein similarity a
	// new OCR reading must exceed against any earlier variant to be merged.
	CaptionTextSimilarityCutoff float64 `toml:"caption_text_similarity_cutoff"`
	MinSegmentFrames            int     `toml:"min_segment_frames"`
	MinSegmentSeconds           float64 `toml:"min_segment_seconds"`
	// FlushTrailingSegment emits the caption still open when the video ends.
	FlushTrailingSegment bool `toml:"flush_trailing_segment"`
}

// OCR contains text recognition settings.
type OCR struct {
	Language       string `toml:"language"`
	Bilingual      bool   `toml:"bilingual"`
	TessdataPrefix string `toml:"tessdata_prefix"`
}

// Cards contains flashcard export settings.
type Cards struct {
	AudioPaddingSeconds float64  `toml:"audio_padding_seconds"`
	FrameWidth          int      `toml:"frame_width"`
	Tags                []string `toml:"tags"`
}

// Logging selects the log format and level.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Tools names the external binaries. Bare names are looked up on PATH.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Config is the complete easyanki configuration, one struct per TOML table.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Segmentize Segmentize `toml:"segmentize"`
	OCR        OCR        `toml:"ocr"`
	Cards      Cards      `toml:"cards"`
	Tools      Tools      `toml:"tools"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the expanded per-user config location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the config at path, or the first existing default location
// when path is empty, on top of Default(). It returns the normalized config,
// the file it looked at, and whether that file existed. Unknown keys are
// rejected so a misspelled threshold does not silently fall back to its
// default.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config %s: unknown keys:\n%s", path, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// resolveConfigPath expands an explicit path, or picks the per-user config
// and then ./easyanki.toml. With neither present the per-user path is
// returned as not existing.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		if err != nil {
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, exists, nil
	}

	var candidates []string
	for _, p := range []string{defaultConfigPath, projectConfigFile} {
		expanded, err := expandPath(p)
		if err != nil {
			return "", false, err
		}
		candidates = append(candidates, expanded)
	}
	for _, candidate := range candidates {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return candidates[0], false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// EnsureDirectories creates the work and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CatalogPath returns the location of the video catalog database.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Paths.WorkDir, catalogFileName)
}

// VideoDir returns the work directory holding the artifacts of one video.
func (c *Config) VideoDir(videoKey string) string {
	return filepath.Join(c.Paths.WorkDir, videoKey)
}

// FFmpegBinary returns the ffmpeg used for frame decoding and card media.
func (c *Config) FFmpegBinary() string {
	return orDefault(c.Tools.FFmpeg, "ffmpeg")
}

// FFprobeBinary returns the ffprobe used for stream inspection.
func (c *Config) FFprobeBinary() string {
	return orDefault(c.Tools.FFprobe, "ffprobe")
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath resolves "~" and makes pathValue absolute.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the commented sample config to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
