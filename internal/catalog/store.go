package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"easyanki/internal/config"
)

// Store is the SQLite-backed video catalog.
type Store struct {
	db   *sql.DB
	path string
}

// connPragmas are applied by the driver to every pooled connection.
var connPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"foreign_keys(1)",
}

// Open opens the catalog under the configured work directory, creating it
// on first use.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.CatalogPath())
}

// OpenPath opens the catalog database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	query := url.Values{"_pragma": connPragmas}
	db, err := sql.Open("sqlite", dbPath+"?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", dbPath, err)
	}
	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// busyBackoff is the wait before each retry of a statement that hit
// SQLITE_BUSY after busy_timeout already expired.
var busyBackoff = []time.Duration{
	10 * time.Millisecond,
	20 * time.Millisecond,
	40 * time.Millisecond,
	80 * time.Millisecond,
}

func isBusy(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	for _, wait := range busyBackoff {
		if !isBusy(err) {
			break
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		res, err = s.db.ExecContext(ctx, query, args...)
	}
	return res, err
}

var selectVideos = "SELECT " + strings.Join(videoColumns, ", ") + " FROM videos"

type rowScanner interface{ Scan(dest ...any) error }

func scanVideo(row rowScanner) (*Video, error) {
	var (
		v                            Video
		title, link, checksum, lang  sql.NullString
		failed, kind, message, runID sql.NullString
		stage, created, updated      string
	)
	err := row.Scan(
		&v.ID, &v.Key, &title, &link, &v.SourcePath, &checksum, &lang, &v.FPS,
		&stage, &failed, &kind, &message, &runID,
		&v.Frames, &v.Segments, &v.Cleaned, &v.Cards, &created, &updated,
	)
	if err != nil {
		return nil, err
	}
	v.Title, v.URL, v.Checksum, v.Language = title.String, link.String, checksum.String, lang.String
	v.Stage, v.FailedStage = Stage(stage), Stage(failed.String)
	v.ErrorKind, v.ErrorMessage, v.RunID = kind.String, message.String, runID.String
	v.CreatedAt = parseTime(created)
	v.UpdatedAt = parseTime(updated)
	return &v, nil
}

// nullableString stores empty strings as NULL.
func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
