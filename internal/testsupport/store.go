package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"easyanki/internal/catalog"
	"easyanki/internal/config"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RegisterVideo adds a video whose source lives under the config base dir.
func RegisterVideo(t testing.TB, store *catalog.Store, cfg *config.Config, key, title string) *catalog.Video {
	t.Helper()

	source := filepath.Join(BaseDir(cfg), "videos", key+".mp4")
	WriteFile(t, source, 64)
	v, err := store.Register(context.Background(), catalog.Video{
		Key:        key,
		Title:      title,
		URL:        "https://example.com/watch?v=" + key,
		SourcePath: source,
		Language:   cfg.OCR.Language,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return v
}
