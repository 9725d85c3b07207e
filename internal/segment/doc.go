// Package segment turns a frame stream into finalized caption segments.
//
// The pipeline is a chain of pull-based iterators:
//
//	frames -> Detect -> Recognize -> Merge -> Finalize -> filters -> Sink
//
// Detect declares a boundary wherever the SSIM of consecutive subtitle bands
// drops below the cutoff. Recognize OCRs the band of each raw segment. Merge
// folds consecutive readings whose text is within the Levenshtein cutoff of
// any variant already collected, and Finalize picks the edit-distance
// centroid of each variant set. No stage holds more than the current
// segment and one previous frame, so memory stays bounded by frame size.
package segment
