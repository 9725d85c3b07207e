package preflight

import (
	"context"
	"fmt"
	"strings"

	"easyanki/internal/catalog"
)

// CheckCatalog reports the health of an open catalog database.
func CheckCatalog(ctx context.Context, store *catalog.Store) Result {
	const name = "Catalog"
	if store == nil {
		return Result{Name: name, Detail: "not opened"}
	}
	health, err := store.CheckHealth(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	switch {
	case !health.DatabaseExists:
		return Result{Name: name, Detail: fmt.Sprintf("%s (missing)", health.DBPath)}
	case !health.TableExists:
		return Result{Name: name, Detail: fmt.Sprintf("%s (videos table missing)", health.DBPath)}
	case len(health.MissingColumns) > 0:
		return Result{Name: name, Detail: fmt.Sprintf("missing columns: %s", strings.Join(health.MissingColumns, ", "))}
	case !health.IntegrityCheck:
		return Result{Name: name, Detail: "integrity check failed"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d videos)", health.DBPath, health.TotalVideos)}
}
