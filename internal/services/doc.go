// Package services defines shared utilities consumed by the workflow stages
// and the external tool adapters.
//
// Key responsibilities:
//   - A Scope carried on the context with the video key, stage name and run
//     id, which the logging package turns into fields.
//   - Failure markers and StageError, built by Wrap, that let the catalog
//     record why a stage failed and the CLI pick an exit status.
package services
