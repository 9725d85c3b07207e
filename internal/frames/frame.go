package frames

import (
	"context"
	"image"
	"iter"
)

// Band bounds of the subtitle region, as fractions of the frame height.
const (
	RegionTop    = 0.78
	RegionBottom = 0.92
)

// Frame is one decoded grayscale picture and its 0-based position in the
// stream. Frames are never mutated after they are produced.
type Frame struct {
	Index int
	Image *image.Gray
}

// Source produces frames in order. A source is single-pass: Frames may be
// ranged over once.
type Source interface {
	Frames(ctx context.Context) iter.Seq2[Frame, error]
	Close() error
}

// SubtitleRegion returns the horizontal band of img between RegionTop and
// RegionBottom of its height, at full width. The band shares pixels with img.
func SubtitleRegion(img *image.Gray) *image.Gray {
	b := img.Bounds()
	h := b.Dy()
	top := int(RegionTop * float64(h))
	bottom := int(RegionBottom * float64(h))
	return img.SubImage(image.Rect(b.Min.X, b.Min.Y+top, b.Max.X, b.Min.Y+bottom)).(*image.Gray)
}

// CloneGray copies img into a new image anchored at the origin.
func CloneGray(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], src[:b.Dx()])
	}
	return out
}

// Pair is two consecutive frames; Cur.Index is the position of the pair.
type Pair struct {
	Prev Frame
	Cur  Frame
}

// Pairs yields each consecutive (previous, current) frame pair. Streams with
// fewer than two frames yield nothing. A source error is yielded once and
// ends the sequence.
func Pairs(seq iter.Seq2[Frame, error]) iter.Seq2[Pair, error] {
	return func(yield func(Pair, error) bool) {
		var prev Frame
		have := false
		for frame, err := range seq {
			if err != nil {
				yield(Pair{}, err)
				return
			}
			if have {
				if !yield(Pair{Prev: prev, Cur: frame}, nil) {
					return
				}
			}
			prev = frame
			have = true
		}
	}
}
