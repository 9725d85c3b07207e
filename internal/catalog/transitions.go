package catalog

import (
	"context"
	"fmt"

	"easyanki/internal/services"
)

// Begin moves a video into a processing stage and tags it with runID.
func (s *Store) Begin(ctx context.Context, key string, stage Stage, runID string) (*Video, error) {
	if !stage.IsProcessing() {
		return nil, fmt.Errorf("begin: %q is not a processing stage", stage)
	}
	v, err := s.MustGet(ctx, key)
	if err != nil {
		return nil, err
	}
	v.Stage = stage
	v.RunID = runID
	v.FailedStage = ""
	v.ErrorKind = ""
	v.ErrorMessage = ""
	if err := s.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// MarkFailed records err against the stage that was running.
func (s *Store) MarkFailed(ctx context.Context, key string, stage Stage, cause error) error {
	v, err := s.MustGet(ctx, key)
	if err != nil {
		return err
	}
	v.Stage = StageFailed
	v.FailedStage = stage
	v.ErrorKind = services.FailureKind(cause)
	if cause != nil {
		v.ErrorMessage = cause.Error()
	}
	return s.Update(ctx, v)
}

// ResetStuckProcessing returns videos left in a processing stage, for example
// after a crash, to the stage before it.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE videos
         SET stage = CASE stage
             WHEN ? THEN ?
             WHEN ? THEN ?
             WHEN ? THEN ?
             ELSE stage
         END,
             updated_at = ?
         WHERE stage IN (?, ?, ?)`,
		StageSegmentizing, processingRollback[StageSegmentizing],
		StageCleaning, processingRollback[StageCleaning],
		StageCarding, processingRollback[StageCarding],
		nowString(),
		StageSegmentizing, StageCleaning, StageCarding,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck videos: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed moves failed videos back to the stage before the one that
// failed. With no keys every failed video is retried.
func (s *Store) RetryFailed(ctx context.Context, keys ...string) (int64, error) {
	query := `UPDATE videos
        SET stage = CASE failed_stage
            WHEN ? THEN ?
            WHEN ? THEN ?
            WHEN ? THEN ?
            ELSE ?
        END,
            failed_stage = NULL, error_kind = NULL, error_message = NULL, updated_at = ?
        WHERE stage = ?`
	args := []any{
		StageSegmentizing, processingRollback[StageSegmentizing],
		StageCleaning, processingRollback[StageCleaning],
		StageCarding, processingRollback[StageCarding],
		StageRegistered,
		nowString(),
		StageFailed,
	}
	if len(keys) > 0 {
		query += ` AND video_key IN (` + makePlaceholders(len(keys)) + `)`
		for _, key := range keys {
			args = append(args, key)
		}
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry failed videos: %w", err)
	}
	return res.RowsAffected()
}
