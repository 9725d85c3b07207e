package cards

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"easyanki/internal/services"
)

// Extractor cuts card media out of a video.
type Extractor interface {
	Audio(ctx context.Context, video, dst string, from, to float64) error
	Frame(ctx context.Context, video, dst string, at float64, width int) error
}

// FFmpeg extracts media with the ffmpeg command line tool.
type FFmpeg struct {
	Binary string
}

// Audio copies the audio stream between from and to seconds without
// re-encoding.
func (f FFmpeg) Audio(ctx context.Context, video, dst string, from, to float64) error {
	return f.run(ctx, "audio", dst,
		"-nostdin", "-v", "error", "-y",
		"-i", video,
		"-ss", seconds(from),
		"-to", seconds(to),
		"-vn",
		"-acodec", "copy",
	)
}

// Frame writes a single JPEG taken at the given second, scaled to width when
// width is positive.
func (f FFmpeg) Frame(ctx context.Context, video, dst string, at float64, width int) error {
	args := []string{
		"-nostdin", "-v", "error", "-y",
		"-ss", seconds(at),
		"-i", video,
		"-frames:v", "1",
		"-q:v", "2",
	}
	if width > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-2", width))
	}
	return f.run(ctx, "frame", dst, args...)
}

// run writes to a temporary name beside dst and renames on success, so an
// interrupted extraction never looks finished.
func (f FFmpeg) run(ctx context.Context, kind, dst string, args ...string) error {
	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	tmp := filepath.Join(filepath.Dir(dst), ".tmp."+filepath.Base(dst))
	cmd := exec.CommandContext(ctx, binary, append(args, tmp)...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(tmp)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return services.Wrap(services.ErrExternalTool, "cards", "ffmpeg "+kind,
			strings.TrimSpace(stderr.String()), err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("move %s into place: %w", kind, err)
	}
	return nil
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
