package segment

import (
	"fmt"
	"image"
	"iter"
	"math"

	"easyanki/internal/frames"
	"easyanki/internal/imgsim"
)

// DetectorOptions configures scene-change detection.
type DetectorOptions struct {
	// Cutoff is the SSIM score below which a caption change is declared.
	Cutoff float64
	// FlushTrailing emits the segment still open at end of stream. When
	// false that last segment is dropped.
	FlushTrailing bool
	// OnFrame, when set, is called with the index of every frame pulled.
	OnFrame func(index int)
}

// Detector splits a frame stream at subtitle band changes. A Detector is
// single use.
type Detector struct {
	opts       DetectorOptions
	cmp        imgsim.Comparator
	score      func(a, b *image.Gray) (float64, error)
	frames     int
	boundaries int
}

// NewDetector returns a detector for opts.
func NewDetector(opts DetectorOptions) *Detector {
	d := &Detector{opts: opts}
	d.score = d.cmp.SSIM
	return d
}

// Detect is shorthand for NewDetector(opts).Detect(seq).
func Detect(seq iter.Seq2[frames.Frame, error], opts DetectorOptions) iter.Seq2[Raw, error] {
	return NewDetector(opts).Detect(seq)
}

// Frames reports how many frames the detector has pulled.
func (d *Detector) Frames() int { return d.frames }

// Boundaries reports how many caption changes the detector has declared.
func (d *Detector) Boundaries() int { return d.boundaries }

// Detect yields raw segments in frame order. Segments partition the frame
// indices contiguously. A NaN score counts as a boundary. Streams with fewer
// than two frames yield nothing.
func (d *Detector) Detect(seq iter.Seq2[frames.Frame, error]) iter.Seq2[Raw, error] {
	return func(yield func(Raw, error) bool) {
		counted := func(yield func(frames.Frame, error) bool) {
			for frame, err := range seq {
				if err == nil {
					d.frames++
					if d.opts.OnFrame != nil {
						d.opts.OnFrame(frame.Index)
					}
				}
				if !yield(frame, err) {
					return
				}
			}
		}

		var (
			start       int
			firstRegion *image.Gray
			lastIndex   int
			lastScore   = math.NaN()
		)
		for pair, err := range frames.Pairs(counted) {
			if err != nil {
				yield(Raw{}, err)
				return
			}
			prevRegion := frames.SubtitleRegion(pair.Prev.Image)
			curRegion := frames.SubtitleRegion(pair.Cur.Image)
			if firstRegion == nil {
				start = pair.Prev.Index
				firstRegion = frames.CloneGray(prevRegion)
			}
			score, err := d.score(prevRegion, curRegion)
			if err != nil {
				yield(Raw{}, fmt.Errorf("compare frames %d and %d: %w", pair.Prev.Index, pair.Cur.Index, err))
				return
			}
			lastIndex = pair.Cur.Index
			lastScore = score
			if score < d.opts.Cutoff || math.IsNaN(score) {
				d.boundaries++
				raw := Raw{Start: start, End: pair.Cur.Index - 1, Score: score, Region: firstRegion}
				if !yield(raw, nil) {
					return
				}
				start = pair.Cur.Index
				firstRegion = frames.CloneGray(curRegion)
			}
		}
		if d.opts.FlushTrailing && firstRegion != nil {
			yield(Raw{Start: start, End: lastIndex, Score: lastScore, Region: firstRegion}, nil)
		}
	}
}
