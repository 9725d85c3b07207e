// Package main hosts the easyanki CLI entrypoint and command graph.
//
// The Cobra command tree exposes each pipeline stage on its own (segmentize a
// video file into a segments CSV, clean a segments CSV, export cards for a
// catalogued video) and the catalog-driven flow that registers videos and
// runs them to completion with resume. Configuration resolution, logger
// construction and catalog access are centralized in commandContext so
// subcommands only translate flags into calls on the internal packages.
package main
