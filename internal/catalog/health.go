package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
)

// CheckHealth inspects the catalog file: whether it opens, which schema
// version it carries, whether the videos table has every column this build
// reads, and whether SQLite's integrity check passes. A missing file is not
// an error; the zero-valued fields say so.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}
	if s.path == "" {
		return health, errors.New("catalog database path is unknown")
	}

	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return health, nil
	case err != nil:
		return health, fmt.Errorf("stat catalog database: %w", err)
	case info.IsDir():
		return health, fmt.Errorf("catalog database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	fail := func(op string, err error) (DatabaseHealth, error) {
		health.Error = err.Error()
		return health, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.PingContext(ctx); err != nil {
		return fail("ping catalog database", err)
	}
	health.DatabaseReadable = true

	if health.SchemaVersion, err = s.userVersion(ctx); err != nil {
		return fail("schema version", err)
	}

	columns, err := s.tableColumns(ctx)
	if err != nil {
		return fail("table info", err)
	}
	if len(columns) > 0 {
		health.TableExists = true
		health.ColumnsPresent = columns
		for _, col := range videoColumns {
			if !slices.Contains(columns, col) {
				health.MissingColumns = append(health.MissingColumns, col)
			}
		}
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos").Scan(&health.TotalVideos); err != nil {
			return fail("count videos", err)
		}
	}

	var integrity string
	if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		return fail("integrity check", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrity, "ok")
	return health, nil
}

// tableColumns returns the videos column names, or none when the table is
// missing.
func (s *Store) tableColumns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info('videos')")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
