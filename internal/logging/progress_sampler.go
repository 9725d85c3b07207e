package logging

import (
	"math"
	"strings"
)

// ProgressSampler thins out progress logs: it lets one event through per
// bucket of percent, and always the first event of a new stage.
type ProgressSampler struct {
	bucket float64
	stage  string
	last   int
}

// NewProgressSampler returns a sampler with the given bucket width in percent.
// Widths outside (0, 100] fall back to 10.
func NewProgressSampler(bucket float64) *ProgressSampler {
	if bucket <= 0 || bucket > 100 {
		bucket = 10
	}
	return &ProgressSampler{bucket: bucket, last: -1}
}

// ShouldLog reports whether a progress event for stage at percent should be
// logged. Negative or NaN percents only count as stage changes. Percent is
// clamped to 100 so the completion event always lands in the final bucket.
func (s *ProgressSampler) ShouldLog(stage string, percent float64) bool {
	if s == nil {
		return true
	}
	emit := false
	if stage = strings.TrimSpace(stage); stage != s.stage {
		s.stage = stage
		s.last = -1
		emit = true
	}
	if percent < 0 || math.IsNaN(percent) {
		return emit
	}
	if b := int(min(percent, 100) / s.bucket); b > s.last {
		s.last = b
		emit = true
	}
	return emit
}

// Reset forgets the current stage and bucket.
func (s *ProgressSampler) Reset() {
	if s != nil {
		s.stage = ""
		s.last = -1
	}
}
