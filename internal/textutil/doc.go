// Package textutil provides the string metrics and containers used to reconcile
// noisy OCR readings of the same caption, plus catalog key derivation.
//
// The primary use cases are:
//   - Computing exact Levenshtein edit distance and the normalized similarity
//     derived from it
//   - Collecting the distinct OCR readings of one caption in insertion order
//   - Choosing the centroid reading of a variant set under edit distance
//   - Deriving filesystem-safe catalog keys from video titles
//
// Distances are measured in runes so captions with diacritics compare the
// same way a reader would count characters.
package textutil
