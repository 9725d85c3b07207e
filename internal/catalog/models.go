package catalog

import (
	"slices"
	"time"
)

// Stage is the lifecycle position of a video.
type Stage string

const (
	StageRegistered   Stage = "registered"
	StageSegmentizing Stage = "segmentizing"
	StageSegmentized  Stage = "segmentized"
	StageCleaning     Stage = "cleaning"
	StageCleaned      Stage = "cleaned"
	StageCarding      Stage = "carding"
	StageCarded       Stage = "carded"
	StageFailed       Stage = "failed"
)

var allStages = []Stage{
	StageRegistered,
	StageSegmentizing,
	StageSegmentized,
	StageCleaning,
	StageCleaned,
	StageCarding,
	StageCarded,
	StageFailed,
}

// processingRollback maps an in-flight stage to the stage a reset returns it to.
var processingRollback = map[Stage]Stage{
	StageSegmentizing: StageRegistered,
	StageCleaning:     StageSegmentized,
	StageCarding:      StageCleaned,
}

// Stages returns every known stage in pipeline order.
func Stages() []Stage {
	return slices.Clone(allStages)
}

// ParseStage reports whether value names a known stage.
func ParseStage(value string) (Stage, bool) {
	stage := Stage(value)
	return stage, slices.Contains(allStages, stage)
}

// IsProcessing reports whether the stage marks work in progress.
func (s Stage) IsProcessing() bool {
	_, ok := processingRollback[s]
	return ok
}

// Rollback returns the stage an interrupted processing stage falls back to.
// Non-processing stages are returned unchanged.
func (s Stage) Rollback() Stage {
	if prev, ok := processingRollback[s]; ok {
		return prev
	}
	return s
}

// Video is one catalog row.
type Video struct {
	ID         int64
	Key        string
	Title      string
	URL        string
	SourcePath string
	Checksum   string
	Language   string
	FPS        float64

	Stage        Stage
	FailedStage  Stage
	ErrorKind    string
	ErrorMessage string
	RunID        string

	Frames   int
	Segments int
	Cleaned  int
	Cards    int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary counts videos by lifecycle bucket.
type Summary struct {
	Total      int
	Pending    int
	Processing int
	Done       int
	Failed     int
}

// DatabaseHealth describes the state of the catalog database file.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    int
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalVideos      int
	Error            string
}
