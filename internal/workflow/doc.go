// Package workflow advances registered videos through the easyanki stages.
//
// A video moves from registered through segmentize (frame scan, OCR and
// merging into segments_raw.csv), clean (segments_cleaned.csv) and cards
// (cards.csv plus media) into carded. Stage outputs live in the video's work
// directory and are the source of truth for resuming: a run starts at the
// first stage whose output file is missing, so deleting a file reruns that
// stage and everything after it.
//
// Each run holds an exclusive file lock on the work directory, is tagged with
// a fresh run id that appears as correlation_id in every log line, and tees
// its logs into run.log next to the outputs. Failures are recorded in the
// catalog with the stage that failed and a failure kind derived from the
// error markers in internal/services.
package workflow
