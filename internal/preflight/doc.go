// Package preflight provides readiness checks for the external tools, OCR
// data and filesystem paths that easyanki depends on.
//
// These checks run in two contexts:
//   - The workflow runs RunAll before processing a video. If any check fails
//     the run stops before ffmpeg is ever started.
//   - The CLI "easyanki status" command displays every result, including
//     the catalog health check.
package preflight
