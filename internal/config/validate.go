package config

import (
	"errors"
	"fmt"
	"math"

	"easyanki/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSegmentize(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateCards(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSegmentize() error {
	s := c.Segmentize
	if math.IsNaN(s.SimilarityCutoff) || s.SimilarityCutoff < -1 || s.SimilarityCutoff > 1 {
		return errors.New("segmentize.similarity_cutoff must be between -1 and 1")
	}
	if math.IsNaN(s.CaptionTextSimilarityCutoff) || s.CaptionTextSimilarityCutoff < 0 || s.CaptionTextSimilarityCutoff > 1 {
		return errors.New("segmentize.caption_text_similarity_cutoff must be between 0 and 1")
	}
	if s.MinSegmentFrames < 1 {
		return errors.New("segmentize.min_segment_frames must be at least 1")
	}
	if s.MinSegmentSeconds < 0 {
		return errors.New("segmentize.min_segment_seconds must be non-negative")
	}
	return nil
}

func (c *Config) validateOCR() error {
	if _, err := language.OCRLanguages(c.OCR.Language, c.OCR.Bilingual); err != nil {
		return fmt.Errorf("ocr.language: %w", err)
	}
	return nil
}

func (c *Config) validateCards() error {
	if c.Cards.AudioPaddingSeconds < 0 {
		return errors.New("cards.audio_padding_seconds must be non-negative")
	}
	if c.Cards.FrameWidth < 0 {
		return errors.New("cards.frame_width must be non-negative (0 keeps the source width)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
