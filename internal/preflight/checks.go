package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"easyanki/internal/config"
	"easyanki/internal/deps"
	"easyanki/internal/language"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTessdata verifies that trained data exists for every OCR language.
// Without a prefix tesseract falls back to its compiled-in search path, which
// cannot be inspected here.
func CheckTessdata(prefix, lang string, bilingual bool) Result {
	const name = "Tesseract data"

	langs, err := language.OCRLanguages(lang, bilingual)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if strings.TrimSpace(prefix) == "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (system tessdata)", langs)}
	}

	var missing []string
	for _, code := range strings.Split(langs, "+") {
		path := filepath.Join(prefix, code+".traineddata")
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			missing = append(missing, code)
			continue
		}
		if err := unix.Access(path, unix.R_OK); err != nil {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("missing %s.traineddata in %s", strings.Join(missing, ".traineddata, "), prefix)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", langs, prefix)}
}

// CheckSystemDeps evaluates the external binaries easyanki shells out to.
// Both RunAll and the CLI status command use it.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpegBinary(), Purpose: "frame decoding and card media"},
		{Name: "FFprobe", Command: cfg.FFprobeBinary(), Purpose: "stream inspection"},
	})
}
