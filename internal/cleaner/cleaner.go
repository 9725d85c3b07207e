// Package cleaner turns raw caption segments into learning/English pairs.
//
// Bilingual captions carry the learning-language line above the English
// translation. A segment is kept only when its text is exactly those two
// lines; anything else is dropped with a warning so the deck never receives a
// half-recognized card.
package cleaner

import (
	"fmt"
	"log/slog"
	"strings"

	"easyanki/internal/logging"
	"easyanki/internal/segment"
	"easyanki/internal/segstore"
)

// Stats reports how many segments were kept and dropped.
type Stats struct {
	Kept    int
	Dropped int
}

// Split separates text into its learning and English lines.
func Split(text string) (learning, english string, ok bool) {
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		return "", "", false
	}
	return lines[0], lines[1], true
}

// Clean converts raw segments, dropping those that are not two-line captions.
func Clean(segments []segment.Final, logger *slog.Logger) ([]segstore.Cleaned, Stats) {
	logger = logging.NewComponentLogger(logger, "cleaner")
	var stats Stats
	out := make([]segstore.Cleaned, 0, len(segments))
	for _, s := range segments {
		learning, english, ok := Split(s.Text)
		if !ok {
			stats.Dropped++
			logging.WarnWithContext(logger, "dropping invalid segment", "segment_invalid",
				logging.Int("segment_start", s.Start),
				logging.Int("segment_end", s.End),
				logging.Int("lines", strings.Count(s.Text, "\n")+1),
				logging.String("text", s.Text),
				logging.String(logging.FieldErrorHint, "expected learning and english separated by one newline"),
				logging.String(logging.FieldImpact, "no card is generated for this segment"),
			)
			continue
		}
		stats.Kept++
		out = append(out, segstore.Cleaned{Start: s.Start, End: s.End, Learning: learning, English: english})
	}
	return out, stats
}

// CleanFile reads a raw segment file and writes the cleaned file.
func CleanFile(inPath, outPath string, logger *slog.Logger) (Stats, error) {
	segments, err := segstore.ReadRaw(inPath)
	if err != nil {
		return Stats{}, err
	}
	rows, stats := Clean(segments, logger)
	if err := segstore.WriteCleaned(outPath, rows); err != nil {
		return stats, fmt.Errorf("write cleaned segments: %w", err)
	}
	logging.NewComponentLogger(logger, "cleaner").Info("segments cleaned",
		logging.Int("kept", stats.Kept),
		logging.Int("dropped", stats.Dropped),
		logging.String("output_file", outPath),
	)
	return stats, nil
}
