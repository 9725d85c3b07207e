package workflow

import (
	"errors"
	"os"
	"path/filepath"

	"easyanki/internal/config"
)

const (
	rawFileName     = "segments_raw.csv"
	cleanedFileName = "segments_cleaned.csv"
	cardsFileName   = "cards.csv"
	runLogFileName  = "run.log"
	lockFileName    = ".lock"
)

// Paths locates the artifacts of one video.
type Paths struct {
	Dir     string
	Raw     string
	Cleaned string
	Cards   string
	RunLog  string
	Lock    string
}

// PathsFor returns the artifact layout of videoKey under the work directory.
func PathsFor(cfg *config.Config, videoKey string) Paths {
	dir := cfg.VideoDir(videoKey)
	return Paths{
		Dir:     dir,
		Raw:     filepath.Join(dir, rawFileName),
		Cleaned: filepath.Join(dir, cleanedFileName),
		Cards:   filepath.Join(dir, cardsFileName),
		RunLog:  filepath.Join(dir, runLogFileName),
		Lock:    filepath.Join(dir, lockFileName),
	}
}

// outputs lists stage outputs in pipeline order.
func (p Paths) outputs() []string {
	return []string{p.Raw, p.Cleaned, p.Cards}
}

// ResumeIndex returns the index of the first stage whose output is missing,
// or the number of stages when every output exists.
func (p Paths) ResumeIndex() (int, error) {
	for i, path := range p.outputs() {
		exists, err := fileExists(path)
		if err != nil {
			return 0, err
		}
		if !exists {
			return i, nil
		}
	}
	return len(p.outputs()), nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
