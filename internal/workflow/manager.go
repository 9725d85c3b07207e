package workflow

import (
	"context"
	"errors"
	"log/slog"

	"easyanki/internal/cards"
	"easyanki/internal/catalog"
	"easyanki/internal/config"
	"easyanki/internal/logging"
	"easyanki/internal/ocr"
	"easyanki/internal/preflight"
)

// ErrVideoBusy reports that another run holds the video's work directory.
var ErrVideoBusy = errors.New("video is being processed by another run")

// Manager runs videos from the catalog through the pipeline stages.
type Manager struct {
	cfg       *config.Config
	store     *catalog.Store
	logger    *slog.Logger
	opener    SourceOpener
	engine    ocr.Engine
	extractor cards.Extractor
	preflight func(ctx context.Context, cfg *config.Config) error
}

// Option customizes a Manager.
type Option func(*Manager)

// WithSourceOpener replaces the ffmpeg frame decoder.
func WithSourceOpener(open SourceOpener) Option {
	return func(m *Manager) { m.opener = open }
}

// WithOCREngine makes every run share engine instead of creating a Tesseract
// engine per run. The caller keeps ownership.
func WithOCREngine(engine ocr.Engine) Option {
	return func(m *Manager) { m.engine = engine }
}

// WithExtractor replaces the ffmpeg media extractor used for cards.
func WithExtractor(extractor cards.Extractor) Option {
	return func(m *Manager) { m.extractor = extractor }
}

// WithoutPreflight skips the environment checks that normally run before
// each video.
func WithoutPreflight() Option {
	return func(m *Manager) { m.preflight = nil }
}

// NewManager constructs a Manager backed by store.
func NewManager(cfg *config.Config, store *catalog.Store, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:       cfg,
		store:     store,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		extractor: cards.FFmpeg{Binary: cfg.FFmpegBinary()},
		preflight: func(ctx context.Context, cfg *config.Config) error {
			return preflight.Err(preflight.RunAll(ctx, cfg))
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Paths returns the artifact layout for videoKey.
func (m *Manager) Paths(videoKey string) Paths {
	return PathsFor(m.cfg, videoKey)
}

// RunAll runs every video that is not yet carded, in catalog order. Failures
// are recorded per video and do not stop the batch; the first error is
// returned after every video was attempted. Cancellation stops the batch.
func (m *Manager) RunAll(ctx context.Context) ([]Result, error) {
	if _, err := m.store.ResetStuckProcessing(ctx); err != nil {
		return nil, err
	}
	videos, err := m.store.List(ctx, catalog.StageRegistered, catalog.StageSegmentized, catalog.StageCleaned)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(videos))
	var firstErr error
	for _, v := range videos {
		res, err := m.Run(ctx, v.Key)
		if err != nil {
			if ctx.Err() != nil {
				return results, err
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, res)
	}
	return results, firstErr
}
