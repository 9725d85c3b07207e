package segment

import (
	"iter"
	"math"

	"easyanki/internal/textutil"
)

// Finalize replaces each variant set with its edit-distance centroid.
func Finalize(merged iter.Seq2[Variants, error]) iter.Seq2[Final, error] {
	return func(yield func(Final, error) bool) {
		for v, err := range merged {
			if err != nil {
				yield(Final{}, err)
				return
			}
			if !yield(Final{Start: v.Start, End: v.End, Text: textutil.Centroid(v.Texts)}, nil) {
				return
			}
		}
	}
}

// FilterStats counts segments removed by the filters.
type FilterStats struct {
	Empty int
	Short int
}

// DropEmpty removes segments whose text is empty.
func DropEmpty(seq iter.Seq2[Final, error], stats *FilterStats) iter.Seq2[Final, error] {
	return dropWhen(seq, func(f Final) bool { return f.Text == "" }, func() {
		if stats != nil {
			stats.Empty++
		}
	})
}

// DropShort removes segments covering fewer than minFrames frames.
func DropShort(seq iter.Seq2[Final, error], minFrames int, stats *FilterStats) iter.Seq2[Final, error] {
	return dropWhen(seq, func(f Final) bool { return f.Duration() < minFrames }, func() {
		if stats != nil {
			stats.Short++
		}
	})
}

func dropWhen(seq iter.Seq2[Final, error], drop func(Final) bool, counted func()) iter.Seq2[Final, error] {
	return func(yield func(Final, error) bool) {
		for f, err := range seq {
			if err != nil {
				yield(Final{}, err)
				return
			}
			if drop(f) {
				counted()
				continue
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// MinFrames combines a frame-count floor with a duration floor in seconds at
// the given frame rate, returning the stricter of the two.
func MinFrames(frames int, seconds, fps float64) int {
	if seconds <= 0 || fps <= 0 {
		return frames
	}
	return max(frames, int(math.Ceil(seconds*fps)))
}
