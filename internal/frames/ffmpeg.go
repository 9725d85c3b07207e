package frames

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"iter"
	"log/slog"
	"math"
	"os/exec"
	"strings"
	"time"

	"easyanki/internal/logging"
	"easyanki/internal/media/ffprobe"
	"easyanki/internal/services"
)

// ErrStreamExhausted reports a decoder stream that ended in the middle of a frame.
var ErrStreamExhausted = errors.New("stream exhausted unexpectedly")

// Info describes the decoded video stream.
type Info struct {
	Width      int
	Height     int
	FPS        float64
	FrameCount int64
	Duration   float64
}

// EstimatedFrames returns the container frame count, or duration*fps when the
// container does not record one.
func (i Info) EstimatedFrames() int64 {
	if i.FrameCount > 0 {
		return i.FrameCount
	}
	if i.FPS > 0 && i.Duration > 0 {
		return int64(math.Round(i.Duration * i.FPS))
	}
	return 0
}

// Options configures FFmpegSource.
type Options struct {
	FFmpegBinary  string
	FFprobeBinary string
	Logger        *slog.Logger
}

// FFmpegSource decodes the first video stream of a file into grayscale frames.
type FFmpegSource struct {
	path     string
	info     Info
	ffmpeg   string
	logger   *slog.Logger
	consumed bool
}

// OpenVideo probes path and prepares a decoder for it. Decoding starts when
// Frames is ranged over.
func OpenVideo(ctx context.Context, path string, opts Options) (*FFmpegSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrValidation, "frames", "open video", "video path is empty", nil)
	}
	probe, err := ffprobe.Inspect(ctx, opts.FFprobeBinary, path)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "frames", "ffprobe", "inspect video", err)
	}
	stream, ok := probe.VideoStream()
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "frames", "open video", "no video stream in "+path, nil)
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return nil, services.Wrap(services.ErrValidation, "frames", "open video",
			fmt.Sprintf("invalid video dimensions %dx%d", stream.Width, stream.Height), nil)
	}

	binary := strings.TrimSpace(opts.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	info := Info{
		Width:      stream.Width,
		Height:     stream.Height,
		FPS:        stream.FrameRate(),
		FrameCount: stream.FrameCount(),
		Duration:   probe.DurationSeconds(),
	}
	logger := logging.NewComponentLogger(opts.Logger, "frames")
	logger.Debug("video probed",
		logging.String("video_file", path),
		logging.String("resolution", stream.Resolution()),
		logging.Float64("fps", info.FPS),
		logging.Int64("frames", info.EstimatedFrames()),
	)
	return &FFmpegSource{path: path, info: info, ffmpeg: binary, logger: logger}, nil
}

// Info returns the probed stream geometry and timing.
func (s *FFmpegSource) Info() Info { return s.info }

// Close implements Source. The decoder process lives only while Frames is
// being ranged over, so there is nothing left to release here.
func (s *FFmpegSource) Close() error { return nil }

func (s *FFmpegSource) args() []string {
	return []string{
		"-nostdin",
		"-v", "error",
		"-noautorotate",
		"-i", s.path,
		"-map", "0:v:0",
		"-fps_mode", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"-",
	}
}

// Frames implements Source. Every frame is a freshly allocated image, so
// consumers may retain frames across iterations. The ffmpeg process is
// killed and reaped when the sequence ends for any reason.
func (s *FFmpegSource) Frames(ctx context.Context) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		if s.consumed {
			yield(Frame{}, ErrConsumed)
			return
		}
		s.consumed = true

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		cmd := exec.CommandContext(runCtx, s.ffmpeg, s.args()...) //nolint:gosec
		cmd.WaitDelay = 2 * time.Second
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			yield(Frame{}, fmt.Errorf("stdout pipe: %w", err))
			return
		}
		if err := cmd.Start(); err != nil {
			yield(Frame{}, services.Wrap(services.ErrExternalTool, "frames", "start ffmpeg", "decoder failed to start", err))
			return
		}
		waited := false
		defer func() {
			if !waited {
				cancel()
				_ = cmd.Wait()
			}
		}()

		frameSize := s.info.Width * s.info.Height
		reader := bufio.NewReaderSize(stdout, max(frameSize, 64*1024))
		rect := image.Rect(0, 0, s.info.Width, s.info.Height)
		for index := 0; ; index++ {
			img := image.NewGray(rect)
			n, err := io.ReadFull(reader, img.Pix)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					yield(Frame{}, ctxErr)
					return
				}
				if errors.Is(err, io.ErrUnexpectedEOF) {
					yield(Frame{}, fmt.Errorf("%w: frame %d has %d of %d bytes", ErrStreamExhausted, index, n, frameSize))
					return
				}
				yield(Frame{}, fmt.Errorf("read frame %d: %w", index, err))
				return
			}
			if !yield(Frame{Index: index, Image: img}, nil) {
				return
			}
		}

		waited = true
		if err := cmd.Wait(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(Frame{}, ctxErr)
				return
			}
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = "decoder exited with error"
			}
			yield(Frame{}, services.Wrap(services.ErrExternalTool, "frames", "ffmpeg", detail, err))
		}
	}
}
