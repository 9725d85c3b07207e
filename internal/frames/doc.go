// Package frames supplies decoded grayscale video frames as a single-pass
// stream and extracts the subtitle band from each frame.
//
// FFmpegSource pipes raw 8-bit luma frames out of an ffmpeg subprocess whose
// geometry comes from ffprobe; SliceSource serves in-memory frames for tests
// and tooling. Both expose Frames as a range-over-func iterator so callers
// can stop early with break, which tears down the decoder.
package frames
