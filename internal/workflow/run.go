package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"easyanki/internal/cards"
	"easyanki/internal/catalog"
	"easyanki/internal/cleaner"
	"easyanki/internal/logging"
	"easyanki/internal/segstore"
	"easyanki/internal/services"
)

// Result describes one Run.
type Result struct {
	Video    *catalog.Video
	RunID    string
	Executed []string
	Skipped  []string
}

type stageSpec struct {
	name       string
	processing catalog.Stage
	done       catalog.Stage
	execute    func(run *videoRun, ctx context.Context) error
}

var pipelineStages = []stageSpec{
	{name: "segmentize", processing: catalog.StageSegmentizing, done: catalog.StageSegmentized, execute: (*videoRun).segmentize},
	{name: "clean", processing: catalog.StageCleaning, done: catalog.StageCleaned, execute: (*videoRun).clean},
	{name: "cards", processing: catalog.StageCarding, done: catalog.StageCarded, execute: (*videoRun).cards},
}

// videoRun carries the state of one Run across its stages.
type videoRun struct {
	m      *Manager
	video  *catalog.Video
	paths  Paths
	id     string
	logger *slog.Logger
}

// Run advances videoKey from its first missing output to carded.
func (m *Manager) Run(ctx context.Context, videoKey string) (Result, error) {
	return m.run(ctx, videoKey, "")
}

// RunStage reruns a single named stage (segmentize, clean or cards) for
// videoKey, replacing its output. The previous stage's output must exist.
func (m *Manager) RunStage(ctx context.Context, videoKey, stage string) (Result, error) {
	if _, ok := stageIndex(stage); !ok {
		return Result{}, services.Wrap(services.ErrValidation, "run", "stage", fmt.Sprintf("unknown stage %q", stage), nil)
	}
	return m.run(ctx, videoKey, stage)
}

func (m *Manager) run(ctx context.Context, videoKey, only string) (Result, error) {
	video, err := m.store.MustGet(ctx, videoKey)
	if err != nil {
		return Result{}, err
	}
	paths := m.Paths(video.Key)
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "run", "work dir", paths.Dir, err)
	}

	lock := flock.New(paths.Lock)
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return Result{}, fmt.Errorf("%s: %w", video.Key, ErrVideoBusy)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("release lock failed", logging.String("lock", paths.Lock), logging.Error(err))
		}
	}()

	if m.preflight != nil {
		if err := m.preflight(ctx, m.cfg); err != nil {
			return Result{}, err
		}
	}

	runID := uuid.NewString()
	ctx = services.WithVideoKey(ctx, video.Key)
	ctx = services.WithRequestID(ctx, runID)

	logger := m.logger
	handler, closer, err := logging.NewFileHandler(paths.RunLog, "json", m.cfg.Logging.Level)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, logger), "run log unavailable", "run_log_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is only logged to the main log"),
		)
	} else {
		defer closer.Close()
		logger = logging.TeeLogger(logger, handler)
	}

	run := &videoRun{m: m, video: video, paths: paths, id: runID, logger: logger}
	result := Result{RunID: runID}

	first, last, err := plan(paths, only)
	if err != nil {
		return result, err
	}
	runLogger := logging.WithContext(ctx, logger)
	runLogger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("resume_from", stageName(first)),
		logging.String("source_file", video.SourcePath),
	)

	began := time.Now()
	for i, spec := range pipelineStages {
		if i < first || i > last {
			result.Skipped = append(result.Skipped, spec.name)
			continue
		}
		if err := run.executeStage(ctx, spec); err != nil {
			result.Video = run.video
			return result, err
		}
		result.Executed = append(result.Executed, spec.name)
	}

	if only == "" && run.video.Stage != catalog.StageCarded {
		run.video.Stage = catalog.StageCarded
		if err := m.store.Update(ctx, run.video); err != nil {
			return result, err
		}
	}
	result.Video = run.video
	runLogger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("segments", run.video.Segments),
		logging.Int("cleaned", run.video.Cleaned),
		logging.Int("cards", run.video.Cards),
		logging.Duration("stage_duration", time.Since(began)),
	)
	return result, nil
}

// plan returns the inclusive range of stage indexes to execute.
func plan(paths Paths, only string) (int, int, error) {
	if only == "" {
		first, err := paths.ResumeIndex()
		return first, len(pipelineStages) - 1, err
	}
	idx, _ := stageIndex(only)
	if idx > 0 {
		input := paths.outputs()[idx-1]
		exists, err := fileExists(input)
		if err != nil {
			return 0, 0, err
		}
		if !exists {
			return 0, 0, services.Wrap(services.ErrNotFound, only, "input", input+" is missing; run "+pipelineStages[idx-1].name+" first", nil)
		}
	}
	return idx, idx, nil
}

func stageIndex(name string) (int, bool) {
	for i, spec := range pipelineStages {
		if spec.name == name {
			return i, true
		}
	}
	return 0, false
}

func stageName(index int) string {
	if index >= len(pipelineStages) {
		return "none"
	}
	return pipelineStages[index].name
}

func (r *videoRun) executeStage(ctx context.Context, spec stageSpec) error {
	ctx = services.WithStage(ctx, spec.name)
	logger := logging.WithContext(ctx, r.logger)
	store := r.m.store

	video, err := store.Begin(ctx, r.video.Key, spec.processing, r.id)
	if err != nil {
		return err
	}
	r.video = video
	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	began := time.Now()

	if err := spec.execute(r, ctx); err != nil {
		return r.stageFailed(ctx, logger, spec, err)
	}

	r.video.Stage = spec.done
	if err := store.Update(ctx, r.video); err != nil {
		return err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("stage_duration", time.Since(began)),
	)
	return nil
}

func (r *videoRun) stageFailed(ctx context.Context, logger *slog.Logger, spec stageSpec, err error) error {
	store := r.m.store
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		r.video.Stage = spec.processing.Rollback()
		if uerr := store.Update(context.WithoutCancel(ctx), r.video); uerr != nil {
			logger.Warn("stage rollback failed", logging.Error(uerr))
		}
		logger.Info("stage interrupted", logging.String(logging.FieldEventType, "stage_interrupted"))
		return err
	}
	if merr := store.MarkFailed(ctx, r.video.Key, spec.processing, err); merr != nil {
		logger.Warn("record failure failed", logging.Error(merr))
	}
	hint := "fix the cause and rerun the video"
	if !services.NeedsAttention(err) {
		hint = "rerun the video; the failure may be temporary"
	}
	attrs := []logging.Attr{
		logging.Error(err),
		logging.String("error_kind", services.FailureKind(err)),
		logging.String(logging.FieldErrorHint, hint),
	}
	var stageErr *services.StageError
	if errors.As(err, &stageErr) && stageErr.Operation != "" {
		attrs = append(attrs, logging.String("operation", stageErr.Operation))
	}
	logging.ErrorWithContext(logger, "stage failed", "stage_failed", attrs...)
	if v, gerr := store.Get(context.WithoutCancel(ctx), r.video.Key); gerr == nil && v != nil {
		r.video = v
	}
	return err
}

func (r *videoRun) segmentize(ctx context.Context) error {
	opts := SegmentizeOptionsFromConfig(r.m.cfg)
	opts.Language = r.video.Language
	opts.Open = r.m.opener
	opts.Engine = r.m.engine
	opts.Logger = r.logger

	sink, err := segstore.Create(r.paths.Raw)
	if err != nil {
		return err
	}
	summary, info, err := Segmentize(ctx, r.video.SourcePath, opts, sink)
	if err != nil {
		_ = sink.Abort()
		return err
	}
	if err := sink.Close(); err != nil {
		return services.Wrap(services.ErrTransient, "segmentize", "write", r.paths.Raw, err)
	}
	r.video.Frames = summary.Frames
	r.video.Segments = summary.Written
	if r.video.FPS <= 0 && info.FPS > 0 {
		r.video.FPS = info.FPS
	}
	return nil
}

func (r *videoRun) clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stats, err := cleaner.CleanFile(r.paths.Raw, r.paths.Cleaned, logging.WithContext(ctx, r.logger))
	if err != nil {
		return err
	}
	r.video.Cleaned = stats.Kept
	return nil
}

func (r *videoRun) cards(ctx context.Context) error {
	fps := r.video.FPS
	if fps <= 0 {
		probed, err := r.m.probeFPS(ctx, r.video.SourcePath)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "cards", "probe fps", r.video.SourcePath, err)
		}
		fps = probed
		r.video.FPS = fps
	}
	cfg := r.m.cfg
	n, err := cards.Export(ctx, cards.Video{
		ID:       r.video.Key,
		Title:    r.video.Title,
		URL:      r.video.URL,
		Path:     r.video.SourcePath,
		Language: r.video.Language,
		FPS:      fps,
	}, r.paths.Cleaned, r.paths.Cards, cards.Options{
		Extractor:    r.m.extractor,
		MediaDir:     r.paths.Dir,
		AudioPadding: cfg.Cards.AudioPaddingSeconds,
		FrameWidth:   cfg.Cards.FrameWidth,
		Tags:         cfg.Cards.Tags,
		Logger:       logging.WithContext(ctx, r.logger),
	})
	if err != nil {
		return err
	}
	r.video.Cards = n
	return nil
}
