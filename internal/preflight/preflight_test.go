package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"easyanki/internal/preflight"
	"easyanki/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := preflight.CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckTessdata(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTessdata("pol", "eng"))
	if r := preflight.CheckTessdata(cfg.OCR.TessdataPrefix, "pl", true); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	r := preflight.CheckTessdata(cfg.OCR.TessdataPrefix, "de", true)
	if r.Passed || !strings.Contains(r.Detail, "deu.traineddata") {
		t.Fatalf("expected missing deu, got %+v", r)
	}
	if r := preflight.CheckTessdata("", "pl", true); !r.Passed {
		t.Fatalf("system tessdata should pass, got %s", r.Detail)
	}
	if r := preflight.CheckTessdata(cfg.OCR.TessdataPrefix, "not a language!", false); r.Passed {
		t.Fatal("expected invalid language to fail")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := preflight.RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReadyEnvironment(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithTessdata("pol", "eng"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if err := preflight.Err(results); err != nil {
		t.Fatalf("Err = %v", err)
	}
}

func TestRunAll_ReportsMissingPieces(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	t.Setenv("PATH", t.TempDir())

	results := preflight.RunAll(context.Background(), cfg)
	err := preflight.Err(results)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	for _, want := range []string{"Work directory", "Tesseract data", "FFmpeg", "FFprobe"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestCheckCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	testsupport.RegisterVideo(t, store, cfg, "vid", "Video")

	r := preflight.CheckCatalog(context.Background(), store)
	if !r.Passed || !strings.Contains(r.Detail, "1 videos") {
		t.Fatalf("unexpected catalog result %+v", r)
	}
	if r := preflight.CheckCatalog(context.Background(), nil); r.Passed {
		t.Fatal("nil store should fail")
	}
}
