package segment

import (
	"context"
	"image"
	"math"
	"testing"

	"easyanki/internal/frames"
	"easyanki/internal/testsupport"
)

func TestDetectTreatsNaNAsBoundary(t *testing.T) {
	images := make([]*image.Gray, 4)
	for i := range images {
		images[i] = testsupport.BandImage(16, 100, 80)
	}
	d := NewDetector(DetectorOptions{Cutoff: 0.95})
	calls := 0
	d.score = func(a, b *image.Gray) (float64, error) {
		calls++
		if calls == 2 {
			return math.NaN(), nil
		}
		return 1, nil
	}

	var raws []Raw
	for raw, err := range d.Detect(frames.NewSliceSource(images...).Frames(context.Background())) {
		if err != nil {
			t.Fatalf("detect: %v", err)
		}
		raws = append(raws, raw)
	}
	if len(raws) != 1 || raws[0].Start != 0 || raws[0].End != 1 {
		t.Fatalf("expected a single [0,1] segment, got %+v", raws)
	}
	if !math.IsNaN(raws[0].Score) {
		t.Fatalf("boundary score should be NaN, got %v", raws[0].Score)
	}
}
