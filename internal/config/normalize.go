package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeOCR(); err != nil {
		return err
	}
	c.normalizeCards()
	c.normalizeLogging()
	return c.normalizeTools()
}

// normalizeTools expands tool settings that look like paths; bare command
// names stay as they are for PATH lookup.
func (c *Config) normalizeTools() error {
	for _, tool := range []struct {
		key   string
		value *string
	}{
		{"tools.ffmpeg", &c.Tools.FFmpeg},
		{"tools.ffprobe", &c.Tools.FFprobe},
	} {
		v := strings.TrimSpace(*tool.value)
		if v == "" || !strings.ContainsAny(v, `/\~`) {
			*tool.value = v
			continue
		}
		expanded, err := expandPath(v)
		if err != nil {
			return fmt.Errorf("%s: %w", tool.key, err)
		}
		*tool.value = expanded
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOCR() error {
	if value, ok := os.LookupEnv("EASYANKI_LANGUAGE"); ok && strings.TrimSpace(value) != "" {
		c.OCR.Language = value
	}
	c.OCR.Language = strings.ToLower(strings.TrimSpace(c.OCR.Language))
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
	if strings.TrimSpace(c.OCR.TessdataPrefix) == "" {
		if value, ok := os.LookupEnv("TESSDATA_PREFIX"); ok {
			c.OCR.TessdataPrefix = value
		}
	}
	if strings.TrimSpace(c.OCR.TessdataPrefix) != "" {
		var err error
		if c.OCR.TessdataPrefix, err = expandPath(strings.TrimSpace(c.OCR.TessdataPrefix)); err != nil {
			return fmt.Errorf("ocr.tessdata_prefix: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCards() {
	tags := make([]string, 0, len(c.Cards.Tags))
	seen := make(map[string]struct{}, len(c.Cards.Tags))
	for _, tag := range c.Cards.Tags {
		tag = strings.Join(strings.Fields(tag), "_")
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	c.Cards.Tags = tags
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
