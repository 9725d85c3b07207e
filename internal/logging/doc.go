// Package logging assembles structured slog loggers and formatting helpers used
// across easyanki.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with video keys, stages, and run correlation IDs. A tee handler
// lets a run mirror its records into a per-video log file, and the progress
// sampler keeps frame-by-frame progress from flooding the console. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
