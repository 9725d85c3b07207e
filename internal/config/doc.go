// Package config reads easyanki.toml into a Config.
//
// Load layers the file over Default(), applies EASYANKI_LANGUAGE and
// TESSDATA_PREFIX, expands "~" in every path, and validates segmentation
// thresholds and the OCR language before returning. Unknown keys are an
// error. The per-video work directory, catalog location and tool binaries
// are derived from the loaded Config, so other packages never build those
// paths themselves.
package config
