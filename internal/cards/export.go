package cards

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"easyanki/internal/fileutil"
	"easyanki/internal/logging"
	"easyanki/internal/segstore"
	"easyanki/internal/services"
)

// Options controls card export.
type Options struct {
	Extractor    Extractor
	MediaDir     string
	AudioPadding float64
	FrameWidth   int
	Tags         []string
	Logger       *slog.Logger
}

// Build extracts media for each cleaned segment and returns the cards in
// segment order.
func Build(ctx context.Context, video Video, rows []segstore.Cleaned, opts Options) ([]Card, error) {
	if video.FPS <= 0 {
		return nil, services.Wrap(services.ErrValidation, "cards", "build", fmt.Sprintf("invalid frame rate %v", video.FPS), nil)
	}
	if video.ID == "" || video.Path == "" {
		return nil, services.Wrap(services.ErrValidation, "cards", "build", "video id and path are required", nil)
	}
	if opts.Extractor == nil {
		opts.Extractor = FFmpeg{}
	}
	if err := os.MkdirAll(opts.MediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure media dir: %w", err)
	}
	logger := logging.NewComponentLogger(opts.Logger, "cards")
	tags := Tags(opts.Tags, video.Title, video.Language)
	sampler := logging.NewProgressSampler(25)

	out := make([]Card, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := float64(row.Start) / video.FPS
		end := float64(row.End) / video.FPS
		id := CardID(video.ID, start, end)

		audio := id + ".aac"
		if err := ensureMedia(filepath.Join(opts.MediaDir, audio), func(dst string) error {
			return opts.Extractor.Audio(ctx, video.Path, dst, max(0, start-opts.AudioPadding), end+opts.AudioPadding)
		}); err != nil {
			return nil, fmt.Errorf("card %s: %w", id, err)
		}

		frame := id + ".jpg"
		mid := (row.Start + row.End) / 2
		if err := ensureMedia(filepath.Join(opts.MediaDir, frame), func(dst string) error {
			return opts.Extractor.Frame(ctx, video.Path, dst, float64(mid)/video.FPS, opts.FrameWidth)
		}); err != nil {
			return nil, fmt.Errorf("card %s: %w", id, err)
		}

		out = append(out, Card{
			GUID:       id,
			Learning:   row.Learning,
			English:    row.English,
			Audio:      audio,
			Frame:      frame,
			VideoTitle: video.Title,
			VideoURL:   video.URL,
			Tags:       tags,
		})
		percent := float64(i+1) / float64(len(rows)) * 100
		if sampler.ShouldLog("cards", percent) {
			logger.Info("extracting card media",
				logging.Float64(logging.FieldProgressPercent, percent),
				logging.Int("cards", i+1),
			)
		}
	}
	return out, nil
}

func ensureMedia(path string, extract func(dst string) error) error {
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return extract(path)
}

// WriteFile writes cards to path atomically.
func WriteFile(path string, cards []Card) error {
	file, err := fileutil.CreateAtomic(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(file)
	if err := w.Write(Header); err != nil {
		_ = file.Abort()
		return err
	}
	for _, c := range cards {
		if err := w.Write(c.Record()); err != nil {
			_ = file.Abort()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Abort()
		return err
	}
	return file.Commit()
}

// Export reads the cleaned segments at cleanedPath, extracts media into
// opts.MediaDir and writes the cards file to outPath.
func Export(ctx context.Context, video Video, cleanedPath, outPath string, opts Options) (int, error) {
	rows, err := segstore.ReadCleaned(cleanedPath)
	if err != nil {
		return 0, err
	}
	if opts.MediaDir == "" {
		opts.MediaDir = filepath.Dir(outPath)
	}
	cards, err := Build(ctx, video, rows, opts)
	if err != nil {
		return 0, err
	}
	if err := WriteFile(outPath, cards); err != nil {
		return 0, fmt.Errorf("write cards: %w", err)
	}
	logging.NewComponentLogger(opts.Logger, "cards").Info("cards exported",
		logging.Int("cards", len(cards)),
		logging.String("output_file", outPath),
		logging.String("media_dir", opts.MediaDir),
	)
	return len(cards), nil
}
