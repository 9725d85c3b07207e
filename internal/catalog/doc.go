// Package catalog persists the videos easyanki knows about in SQLite.
//
// Each video row tracks where the source lives, which pipeline stage last
// completed, counts produced by each stage, and the most recent failure. The
// schema is embedded and its version kept in PRAGMA user_version; a database
// created by a different version is rejected instead of being migrated.
//
// Writes retry on SQLITE_BUSY with a short exponential backoff so a CLI
// listing the catalog never fails a concurrent pipeline run.
package catalog
