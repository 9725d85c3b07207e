package ocr

import (
	"context"
	"image"
)

// Engine turns a grayscale image into text. lang uses tesseract's "+"-joined
// language codes (for example "pol+eng").
type Engine interface {
	Recognize(ctx context.Context, img *image.Gray, lang string) (string, error)
	Close() error
}

// Func adapts a plain function to Engine.
type Func func(ctx context.Context, img *image.Gray, lang string) (string, error)

// Recognize implements Engine.
func (f Func) Recognize(ctx context.Context, img *image.Gray, lang string) (string, error) {
	return f(ctx, img, lang)
}

// Close implements Engine.
func (Func) Close() error { return nil }

// Static returns the same text (or error) for every image.
type Static struct {
	Text string
	Err  error
}

// Recognize implements Engine.
func (s Static) Recognize(ctx context.Context, _ *image.Gray, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Text, s.Err
}

// Close implements Engine.
func (Static) Close() error { return nil }
