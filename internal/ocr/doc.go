// Package ocr recognizes caption text in subtitle band images.
//
// Engine is the narrow interface the segmentation pipeline depends on. The
// libtesseract implementation lives in the tesseract subpackage; Static and
// Func engines stand in for it in tests.
package ocr
