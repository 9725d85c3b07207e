package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestStreamFrameRate(t *testing.T) {
	tests := []struct {
		name   string
		stream Stream
		want   float64
	}{
		{name: "ntsc average", stream: Stream{AvgFrameRate: "30000/1001"}, want: 29.97002997},
		{name: "falls back to base rate", stream: Stream{AvgFrameRate: "0/0", RFrameRate: "25/1"}, want: 25},
		{name: "plain decimal", stream: Stream{AvgFrameRate: "23.976"}, want: 23.976},
		{name: "garbage", stream: Stream{AvgFrameRate: "n/a", RFrameRate: "x"}, want: 0},
		{name: "missing", stream: Stream{}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stream.FrameRate(); math.Abs(got-tt.want) > 1e-6 {
				t.Fatalf("FrameRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", Width: 1280, Height: 720, NBFrames: "900", Duration: "30.0"}},
		Format:  Format{Duration: "30.03"},
	}
	if got := result.DurationSeconds(); got != 30.03 {
		t.Fatalf("DurationSeconds() = %v, want container duration", got)
	}
	video, ok := result.VideoStream()
	if !ok {
		t.Fatal("expected video stream")
	}
	if video.FrameCount() != 900 {
		t.Fatalf("FrameCount() = %d", video.FrameCount())
	}
	if video.Resolution() != "1280x720" {
		t.Fatalf("Resolution() = %q", video.Resolution())
	}

	result.Format.Duration = ""
	if got := result.DurationSeconds(); got != 30 {
		t.Fatalf("DurationSeconds() = %v, want stream fallback", got)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", NBFrames: "n/a"}},
		Format:  Format{Duration: "bad"},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected NaN duration, got %v", result.DurationSeconds())
	}
	if _, ok := result.VideoStream(); ok {
		t.Fatal("audio stream must not be reported as video")
	}
	if result.Streams[0].FrameCount() != 0 {
		t.Fatal("expected frame count 0 for unparsable value")
	}
}

func TestParse(t *testing.T) {
	payload := []byte(`{"streams":[{"index":0,"codec_type":"video","width":640,"height":360,"r_frame_rate":"24/1"}],"format":{"duration":"10.0"}}`)
	result, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	video, ok := result.VideoStream()
	if !ok || video.Width != 640 || video.Height != 360 || video.FrameRate() != 24 {
		t.Fatalf("unexpected stream: %+v", video)
	}
	if _, err := Parse([]byte("{")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectRunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho '{\"streams\":[{\"codec_type\":\"video\",\"width\":320,\"height\":240,\"avg_frame_rate\":\"25/1\"}],\"format\":{}}'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	result, err := Inspect(context.Background(), stub, filepath.Join(dir, "clip.mp4"))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	video, ok := result.VideoStream()
	if !ok || video.FrameRate() != 25 {
		t.Fatalf("unexpected stream: %+v", video)
	}
	if _, err := Inspect(context.Background(), stub, "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
