package workflow

import (
	"context"
	"log/slog"

	"easyanki/internal/config"
	"easyanki/internal/frames"
	"easyanki/internal/language"
	"easyanki/internal/ocr"
	"easyanki/internal/ocr/tesseract"
	"easyanki/internal/segment"
	"easyanki/internal/services"
)

// SourceOpener opens a frame source for a video file.
type SourceOpener func(ctx context.Context, path string) (frames.Source, frames.Info, error)

// FFmpegOpener decodes videos with the configured ffmpeg and ffprobe binaries.
func FFmpegOpener(ffmpegBinary, ffprobeBinary string, logger *slog.Logger) SourceOpener {
	return func(ctx context.Context, path string) (frames.Source, frames.Info, error) {
		src, err := frames.OpenVideo(ctx, path, frames.Options{
			FFmpegBinary:  ffmpegBinary,
			FFprobeBinary: ffprobeBinary,
			Logger:        logger,
		})
		if err != nil {
			return nil, frames.Info{}, err
		}
		return src, src.Info(), nil
	}
}

// SegmentizeOptions configures a single segmentation run.
type SegmentizeOptions struct {
	Language                    string
	Bilingual                   bool
	SimilarityCutoff            float64
	CaptionTextSimilarityCutoff float64
	MinSegmentFrames            int
	MinSegmentSeconds           float64
	FlushTrailing               bool
	TessdataPrefix              string
	FFmpegBinary                string
	FFprobeBinary               string

	// Open defaults to FFmpegOpener over FFmpegBinary and FFprobeBinary,
	// logging to Logger.
	Open SourceOpener
	// Engine defaults to a tesseract client owned by the run.
	Engine ocr.Engine
	Logger *slog.Logger
}

// SegmentizeOptionsFromConfig seeds options from the loaded configuration.
func SegmentizeOptionsFromConfig(cfg *config.Config) SegmentizeOptions {
	return SegmentizeOptions{
		Language:                    cfg.OCR.Language,
		Bilingual:                   cfg.OCR.Bilingual,
		SimilarityCutoff:            cfg.Segmentize.SimilarityCutoff,
		CaptionTextSimilarityCutoff: cfg.Segmentize.CaptionTextSimilarityCutoff,
		MinSegmentFrames:            cfg.Segmentize.MinSegmentFrames,
		MinSegmentSeconds:           cfg.Segmentize.MinSegmentSeconds,
		FlushTrailing:               cfg.Segmentize.FlushTrailingSegment,
		TessdataPrefix:              cfg.OCR.TessdataPrefix,
		FFmpegBinary:                cfg.FFmpegBinary(),
		FFprobeBinary:               cfg.FFprobeBinary(),
	}
}

// Segmentize decodes videoPath and writes its caption segments to sink.
func Segmentize(ctx context.Context, videoPath string, opts SegmentizeOptions, sink segment.Sink) (segment.Summary, frames.Info, error) {
	lang, err := language.OCRLanguages(opts.Language, opts.Bilingual)
	if err != nil {
		return segment.Summary{}, frames.Info{}, services.Wrap(services.ErrConfiguration, "segmentize", "language", opts.Language, err)
	}
	open := opts.Open
	if open == nil {
		open = FFmpegOpener(opts.FFmpegBinary, opts.FFprobeBinary, opts.Logger)
	}
	src, info, err := open(ctx, videoPath)
	if err != nil {
		return segment.Summary{}, frames.Info{}, err
	}
	defer src.Close()

	engine := opts.Engine
	if engine == nil {
		tess, err := tesseract.New(tesseract.Options{TessdataPrefix: opts.TessdataPrefix})
		if err != nil {
			return segment.Summary{}, info, err
		}
		defer tess.Close()
		engine = tess
	}

	summary, err := segment.Run(ctx, segment.Params{
		Source:                      src,
		Engine:                      engine,
		Sink:                        sink,
		Language:                    lang,
		SimilarityCutoff:            opts.SimilarityCutoff,
		CaptionTextSimilarityCutoff: opts.CaptionTextSimilarityCutoff,
		MinFrames:                   segment.MinFrames(opts.MinSegmentFrames, opts.MinSegmentSeconds, info.FPS),
		FlushTrailing:               opts.FlushTrailing,
		TotalFrames:                 info.EstimatedFrames(),
		Logger:                      opts.Logger,
	})
	return summary, info, err
}
