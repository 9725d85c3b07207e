package segment

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"easyanki/internal/frames"
	"easyanki/internal/logging"
	"easyanki/internal/ocr"
)

// ErrNoFrames is returned by Run when the source produced no frames at all.
var ErrNoFrames = errors.New("segment: video produced no frames")

// Sink receives finalized segments in frame order.
type Sink interface {
	Write(Final) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Final) error

// Write implements Sink.
func (f SinkFunc) Write(s Final) error { return f(s) }

// Params wires one segmentation run.
type Params struct {
	Source   frames.Source
	Engine   ocr.Engine
	Sink     Sink
	Language string

	SimilarityCutoff            float64
	CaptionTextSimilarityCutoff float64
	MinFrames                   int
	FlushTrailing               bool

	// TotalFrames, when known, turns frame counts into progress percentages.
	TotalFrames int64
	Logger      *slog.Logger
}

// Summary reports what a run saw and kept.
type Summary struct {
	Frames       int
	Boundaries   int
	Merged       int
	Written      int
	DroppedEmpty int
	DroppedShort int
}

// Run pulls every frame from the source through detection, OCR, merging,
// centroid selection and the filters, writing survivors to the sink. Any
// error ends the run; whatever the sink received before it is incomplete.
func Run(ctx context.Context, p Params) (Summary, error) {
	if p.Source == nil || p.Engine == nil || p.Sink == nil {
		return Summary{}, errors.New("segment: source, engine and sink are required")
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(p.Logger, "segmentize"))
	sampler := logging.NewProgressSampler(10)
	started := time.Now()

	det := NewDetector(DetectorOptions{
		Cutoff:        p.SimilarityCutoff,
		FlushTrailing: p.FlushTrailing,
		OnFrame: func(index int) {
			if p.TotalFrames <= 0 {
				return
			}
			percent := float64(index+1) / float64(p.TotalFrames) * 100
			if sampler.ShouldLog("detect", percent) {
				logger.Info("scanning frames",
					logging.Float64(logging.FieldProgressPercent, min(percent, 100)),
					logging.Int("frames", index+1),
				)
			}
		},
	})

	var summary Summary
	var stats FilterStats
	raws := det.Detect(p.Source.Frames(ctx))
	texts := Recognize(ctx, raws, p.Engine, p.Language, p.Logger)
	merged := counting(Merge(texts, p.CaptionTextSimilarityCutoff), &summary.Merged)
	finals := DropShort(DropEmpty(Finalize(merged), &stats), p.MinFrames, &stats)

	fill := func() {
		summary.Frames = det.Frames()
		summary.Boundaries = det.Boundaries()
		summary.DroppedEmpty = stats.Empty
		summary.DroppedShort = stats.Short
	}
	for f, err := range finals {
		if err != nil {
			fill()
			return summary, err
		}
		logger.Debug("segment finalized",
			logging.Int("segment_start", f.Start),
			logging.Int("segment_end", f.End),
			logging.String("text", f.Text),
		)
		if err := p.Sink.Write(f); err != nil {
			fill()
			return summary, fmt.Errorf("write segment %d-%d: %w", f.Start, f.End, err)
		}
		summary.Written++
	}
	fill()
	if summary.Frames == 0 {
		return summary, ErrNoFrames
	}

	logger.Info("segmentation complete",
		logging.Int("frames", summary.Frames),
		logging.Int("boundaries", summary.Boundaries),
		logging.Int("merged", summary.Merged),
		logging.Int("written", summary.Written),
		logging.Int("dropped_empty", summary.DroppedEmpty),
		logging.Int("dropped_short", summary.DroppedShort),
		logging.Duration("stage_duration", time.Since(started)),
	)
	return summary, nil
}

func counting(seq iter.Seq2[Variants, error], n *int) iter.Seq2[Variants, error] {
	return func(yield func(Variants, error) bool) {
		for v, err := range seq {
			if err == nil {
				*n++
			}
			if !yield(v, err) {
				return
			}
		}
	}
}
