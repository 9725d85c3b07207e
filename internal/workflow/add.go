package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"easyanki/internal/catalog"
	"easyanki/internal/fileutil"
	"easyanki/internal/language"
	"easyanki/internal/logging"
	"easyanki/internal/media/ffprobe"
	"easyanki/internal/services"
	"easyanki/internal/textutil"
)

// AddRequest describes a video to register.
type AddRequest struct {
	Path     string
	Key      string
	Title    string
	URL      string
	Language string
	// Copy stores a checksummed copy of the source in the video's work
	// directory instead of referencing it in place.
	Copy bool
}

// Add registers a local video file in the catalog.
func (m *Manager) Add(ctx context.Context, req AddRequest) (*catalog.Video, error) {
	src := strings.TrimSpace(req.Path)
	if src == "" {
		return nil, services.Wrap(services.ErrValidation, "add", "source", "video path is required", nil)
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "add", "source", src, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "add", "source", abs, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "add", "source", abs+" is a directory", nil)
	}

	stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	key := strings.TrimSpace(req.Key)
	if key == "" {
		key = textutil.SanitizeToken(stem)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = stem
	}
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = m.cfg.OCR.Language
	}
	if _, err := language.OCRLanguages(lang, false); err != nil {
		return nil, services.Wrap(services.ErrValidation, "add", "language", lang, err)
	}

	ctx = services.WithVideoKey(ctx, key)
	logger := logging.WithContext(ctx, m.logger)

	fps, err := m.probeFPS(ctx, abs)
	if err != nil {
		logging.WarnWithContext(logger, "frame rate probe failed", "probe_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "duration filters and card timestamps use the rate detected at run time"),
		)
	}

	video := catalog.Video{
		Key:        key,
		Title:      title,
		URL:        strings.TrimSpace(req.URL),
		SourcePath: abs,
		Language:   lang,
		FPS:        fps,
	}
	if req.Copy {
		if existing, err := m.store.Get(ctx, key); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, services.Wrap(services.ErrValidation, "add", "register",
				fmt.Sprintf("video %q already registered", key), nil)
		}
		dst := filepath.Join(m.cfg.VideoDir(key), "source"+strings.ToLower(filepath.Ext(abs)))
		sum, err := fileutil.CopyVerified(abs, dst)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "add", "copy source", abs, err)
		}
		video.SourcePath = dst
		video.Checksum = sum
	}

	registered, err := m.store.Register(ctx, video)
	if err != nil {
		return nil, err
	}
	logger.Info("video registered",
		logging.String("source_file", registered.SourcePath),
		logging.String("language", registered.Language),
		logging.Float64("fps", registered.FPS),
	)
	return registered, nil
}

func (m *Manager) probeFPS(ctx context.Context, path string) (float64, error) {
	res, err := ffprobe.Inspect(ctx, m.cfg.FFprobeBinary(), path)
	if err != nil {
		return 0, err
	}
	stream, ok := res.VideoStream()
	if !ok {
		return 0, fmt.Errorf("no video stream in %s", path)
	}
	return stream.FrameRate(), nil
}
