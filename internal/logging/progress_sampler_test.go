package logging

import (
	"math"
	"testing"
)

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)
	steps := []struct {
		stage   string
		percent float64
		want    bool
	}{
		{"detect", 0, true},
		{"detect", 3, false},
		{"detect", 24.9, false},
		{"detect", 25, true},
		{"detect", 49, false},
		{"detect", 80, true},
		{"detect", 140, true},
		{"detect", 100, false},
		{" detect ", 100, false},
		{"cards", 0, true},
		{"cards", -1, false},
		{"cards", math.NaN(), false},
		{"cards", 30, true},
	}
	for i, step := range steps {
		if got := s.ShouldLog(step.stage, step.percent); got != step.want {
			t.Fatalf("step %d ShouldLog(%q, %v) = %v, want %v", i, step.stage, step.percent, got, step.want)
		}
	}
}

func TestProgressSamplerUnknownPercentStillReportsStageChange(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.ShouldLog("detect", -1) {
		t.Fatal("first event of a stage should log even without a percent")
	}
	if s.ShouldLog("detect", -1) {
		t.Fatal("repeated unknown percent should be suppressed")
	}
}

func TestProgressSamplerDefaultsAndReset(t *testing.T) {
	for _, bucket := range []float64{0, -5, 250} {
		if got := NewProgressSampler(bucket).bucket; got != 10 {
			t.Fatalf("NewProgressSampler(%v).bucket = %v, want 10", bucket, got)
		}
	}

	s := NewProgressSampler(50)
	s.ShouldLog("detect", 60)
	if s.ShouldLog("detect", 70) {
		t.Fatal("same bucket should be suppressed")
	}
	s.Reset()
	if !s.ShouldLog("detect", 70) {
		t.Fatal("Reset should let the next event through")
	}

	var nilSampler *ProgressSampler
	if !nilSampler.ShouldLog("detect", 1) {
		t.Fatal("nil sampler should log everything")
	}
	nilSampler.Reset()
}
