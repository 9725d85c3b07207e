package imgsim

import (
	"errors"
	"fmt"
	"image"
)

const (
	// WindowSize is the side length of the square comparison window.
	WindowSize = 7

	dataRange = 255.0
	k1        = 0.01
	k2        = 0.03
)

var (
	c1 = (k1 * dataRange) * (k1 * dataRange)
	c2 = (k2 * dataRange) * (k2 * dataRange)
)

// ErrSizeMismatch reports images with different bounds sizes.
var ErrSizeMismatch = errors.New("imgsim: image sizes differ")

// ErrTooSmall reports images smaller than the comparison window.
var ErrTooSmall = errors.New("imgsim: image smaller than window")

// Comparator computes SSIM while reusing its summed-area buffers between calls.
// It is not safe for concurrent use.
type Comparator struct {
	sx, sy, sxx, syy, sxy []int64
}

// SSIM returns the mean structural similarity of a and b in [-1, 1].
func SSIM(a, b *image.Gray) (float64, error) {
	var c Comparator
	return c.SSIM(a, b)
}

// SSIM returns the mean structural similarity of a and b in [-1, 1].
func (c *Comparator) SSIM(a, b *image.Gray) (float64, error) {
	if a == nil || b == nil {
		return 0, errors.New("imgsim: nil image")
	}
	w, h := a.Rect.Dx(), a.Rect.Dy()
	if w != b.Rect.Dx() || h != b.Rect.Dy() {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, w, h, b.Rect.Dx(), b.Rect.Dy())
	}
	if w < WindowSize || h < WindowSize {
		return 0, fmt.Errorf("%w: %dx%d", ErrTooSmall, w, h)
	}

	c.integrate(a, b, w, h)

	const n = WindowSize * WindowSize
	covNorm := float64(n) / float64(n-1)
	stride := w + 1

	var total float64
	for y := 0; y+WindowSize <= h; y++ {
		top := y * stride
		bottom := (y + WindowSize) * stride
		for x := 0; x+WindowSize <= w; x++ {
			tl, tr := top+x, top+x+WindowSize
			bl, br := bottom+x, bottom+x+WindowSize

			ux := float64(c.sx[br]-c.sx[bl]-c.sx[tr]+c.sx[tl]) / n
			uy := float64(c.sy[br]-c.sy[bl]-c.sy[tr]+c.sy[tl]) / n
			uxx := float64(c.sxx[br]-c.sxx[bl]-c.sxx[tr]+c.sxx[tl]) / n
			uyy := float64(c.syy[br]-c.syy[bl]-c.syy[tr]+c.syy[tl]) / n
			uxy := float64(c.sxy[br]-c.sxy[bl]-c.sxy[tr]+c.sxy[tl]) / n

			vx := covNorm * (uxx - ux*ux)
			vy := covNorm * (uyy - uy*uy)
			vxy := covNorm * (uxy - ux*uy)

			num := (2*ux*uy + c1) * (2*vxy + c2)
			den := (ux*ux + uy*uy + c1) * (vx + vy + c2)
			total += num / den
		}
	}
	windows := (w - WindowSize + 1) * (h - WindowSize + 1)
	return total / float64(windows), nil
}

func (c *Comparator) integrate(a, b *image.Gray, w, h int) {
	size := (w + 1) * (h + 1)
	c.sx = resize(c.sx, size)
	c.sy = resize(c.sy, size)
	c.sxx = resize(c.sxx, size)
	c.syy = resize(c.syy, size)
	c.sxy = resize(c.sxy, size)

	stride := w + 1
	for y := 0; y < h; y++ {
		rowA := a.Pix[y*a.Stride : y*a.Stride+w]
		rowB := b.Pix[y*b.Stride : y*b.Stride+w]
		var rx, ry, rxx, ryy, rxy int64
		cur := (y + 1) * stride
		prev := y * stride
		for x := 0; x < w; x++ {
			pa := int64(rowA[x])
			pb := int64(rowB[x])
			rx += pa
			ry += pb
			rxx += pa * pa
			ryy += pb * pb
			rxy += pa * pb
			c.sx[cur+x+1] = c.sx[prev+x+1] + rx
			c.sy[cur+x+1] = c.sy[prev+x+1] + ry
			c.sxx[cur+x+1] = c.sxx[prev+x+1] + rxx
			c.syy[cur+x+1] = c.syy[prev+x+1] + ryy
			c.sxy[cur+x+1] = c.sxy[prev+x+1] + rxy
		}
	}
}

func resize(buf []int64, size int) []int64 {
	if cap(buf) < size {
		return make([]int64, size)
	}
	buf = buf[:size]
	clear(buf)
	return buf
}
