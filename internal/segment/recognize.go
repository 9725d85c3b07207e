package segment

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"

	"easyanki/internal/logging"
	"easyanki/internal/ocr"
)

// Recognize OCRs the region of every raw segment. Engine failures other than
// context cancellation degrade to empty text with a warning, leaving the
// empty-text filter to drop the segment.
func Recognize(ctx context.Context, raws iter.Seq2[Raw, error], engine ocr.Engine, lang string, logger *slog.Logger) iter.Seq2[Text, error] {
	logger = logging.NewComponentLogger(logger, "ocr")
	return func(yield func(Text, error) bool) {
		for raw, err := range raws {
			if err != nil {
				yield(Text{}, err)
				return
			}
			text, err := engine.Recognize(ctx, raw.Region, lang)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					yield(Text{}, err)
					return
				}
				logging.WarnWithContext(logger, "ocr failed; segment text left empty", "ocr_failed",
					logging.Int("segment_start", raw.Start),
					logging.Int("segment_end", raw.End),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check tessdata for "+lang),
					logging.String(logging.FieldImpact, "segment will be dropped as empty"),
				)
				text = ""
			}
			if !yield(Text{Start: raw.Start, End: raw.End, Text: strings.TrimSpace(text)}, nil) {
				return
			}
		}
	}
}
