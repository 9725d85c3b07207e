// Package tesseract implements ocr.Engine on libtesseract through gosseract.
//
// This is the only cgo package in the module. Building it requires the
// leptonica and tesseract development headers.
package tesseract
