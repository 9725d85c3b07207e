// Package segstore persists segments as CSV files.
//
// Raw segmentation output uses the header start_frame,end_frame,text and the
// cleaned file uses start_frame,end_frame,learning,english. Text fields are
// quoted as needed, so captions keep their embedded newlines. Files written
// to a path appear atomically when the writer is closed; an aborted run never
// leaves a file that looks complete.
package segstore
