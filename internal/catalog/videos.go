package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"easyanki/internal/services"
)

// Register inserts a new video in the registered stage. Keys are unique.
func (s *Store) Register(ctx context.Context, v Video) (*Video, error) {
	v.Key = strings.TrimSpace(v.Key)
	if v.Key == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "register", "video key is required", nil)
	}
	if strings.TrimSpace(v.SourcePath) == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "register", "source path is required", nil)
	}
	existing, err := s.Get(ctx, v.Key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, services.Wrap(services.ErrValidation, "catalog", "register",
			fmt.Sprintf("video %q already registered", v.Key), nil)
	}

	timestamp := nowString()
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO videos (
            video_key, title, url, source_path, checksum, language, fps, stage,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Key,
		nullableString(v.Title),
		nullableString(v.URL),
		v.SourcePath,
		nullableString(v.Checksum),
		nullableString(v.Language),
		v.FPS,
		StageRegistered,
		timestamp,
		timestamp,
	); err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return s.Get(ctx, v.Key)
}

// Get fetches a video by key. A missing video returns nil without error.
func (s *Store) Get(ctx context.Context, key string) (*Video, error) {
	row := s.db.QueryRowContext(ctx, selectVideos+` WHERE video_key = ?`, key)
	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return v, nil
}

// MustGet fetches a video by key and reports a not-found error when absent.
func (s *Store) MustGet(ctx context.Context, key string) (*Video, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "get", fmt.Sprintf("video %q is not registered", key), nil)
	}
	return v, nil
}

// Update persists every mutable field of v.
func (s *Store) Update(ctx context.Context, v *Video) error {
	if v == nil {
		return errors.New("video is nil")
	}
	v.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx,
		`UPDATE videos
         SET title = ?, url = ?, source_path = ?, checksum = ?, language = ?, fps = ?,
             stage = ?, failed_stage = ?, error_kind = ?, error_message = ?, run_id = ?,
             frames = ?, segments = ?, cleaned = ?, cards = ?, updated_at = ?
         WHERE video_key = ?`,
		nullableString(v.Title),
		nullableString(v.URL),
		v.SourcePath,
		nullableString(v.Checksum),
		nullableString(v.Language),
		v.FPS,
		v.Stage,
		nullableString(string(v.FailedStage)),
		nullableString(v.ErrorKind),
		nullableString(v.ErrorMessage),
		nullableString(v.RunID),
		v.Frames,
		v.Segments,
		v.Cleaned,
		v.Cards,
		v.UpdatedAt.Format(time.RFC3339Nano),
		v.Key,
	)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "update", fmt.Sprintf("video %q is not registered", v.Key), nil)
	}
	return nil
}

// List returns videos filtered by stage (or all videos when none is given)
// ordered by registration time.
func (s *Store) List(ctx context.Context, stages ...Stage) ([]*Video, error) {
	query := selectVideos
	args := make([]any, len(stages))
	if len(stages) > 0 {
		for i, stage := range stages {
			args[i] = stage
		}
		query += ` WHERE stage IN (` + makePlaceholders(len(stages)) + `)`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Remove deletes a video by key.
func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM videos WHERE video_key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("delete video: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Stats returns a count of videos grouped by stage.
func (s *Store) Stats(ctx context.Context) (map[Stage]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stage, COUNT(1) FROM videos GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Stage]int)
	for rows.Next() {
		var stage Stage
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		stats[stage] = count
	}
	return stats, rows.Err()
}

// Summarize aggregates stage counts into lifecycle buckets.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	for stage, count := range stats {
		summary.Total += count
		switch {
		case stage == StageCarded:
			summary.Done += count
		case stage == StageFailed:
			summary.Failed += count
		case stage.IsProcessing():
			summary.Processing += count
		default:
			summary.Pending += count
		}
	}
	return summary, nil
}
