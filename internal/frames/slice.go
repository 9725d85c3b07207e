package frames

import (
	"context"
	"errors"
	"image"
	"iter"
)

// ErrConsumed is returned when a single-pass source is ranged over twice.
var ErrConsumed = errors.New("frames: source already consumed")

// SliceSource serves frames from memory.
type SliceSource struct {
	images   []*image.Gray
	tailErr  error
	consumed bool
}

// NewSliceSource returns a source yielding images in order with indices 0..n-1.
func NewSliceSource(images ...*image.Gray) *SliceSource {
	return &SliceSource{images: images}
}

// WithError makes the source yield err after its last image.
func (s *SliceSource) WithError(err error) *SliceSource {
	s.tailErr = err
	return s
}

// Frames implements Source.
func (s *SliceSource) Frames(ctx context.Context) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		if s.consumed {
			yield(Frame{}, ErrConsumed)
			return
		}
		s.consumed = true
		for i, img := range s.images {
			if err := ctx.Err(); err != nil {
				yield(Frame{}, err)
				return
			}
			if !yield(Frame{Index: i, Image: img}, nil) {
				return
			}
		}
		if s.tailErr != nil {
			yield(Frame{}, s.tailErr)
		}
	}
}

// Close implements Source.
func (s *SliceSource) Close() error { return nil }
