package services

import (
	"errors"
	"strings"
)

// Failure markers. Every error a pipeline stage returns should carry one so
// the catalog can record why the stage stopped.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// StageError is a classified failure inside one stage operation.
type StageError struct {
	Kind      error
	Stage     string
	Operation string
	Message   string
	Err       error
}

func (e *StageError) Error() string {
	parts := []string{e.Kind.Error()}
	detail := 0
	for _, p := range []string{e.Stage, e.Operation, e.Message} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
			detail++
		}
	}
	if detail == 0 {
		parts = append(parts, "service failure")
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes both the marker and the cause to errors.Is and errors.As.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap classifies err under marker, one of the Err* markers above. A nil
// marker means ErrTransient; err may be nil for failures with no cause.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	return &StageError{Kind: marker, Stage: stage, Operation: operation, Message: message, Err: err}
}

// FailureKind names the marker on err for the catalog. Unmarked errors are
// "transient".
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "transient"
	}
}

// NeedsAttention reports whether retrying without user changes is pointless.
func NeedsAttention(err error) bool {
	switch FailureKind(err) {
	case "validation", "configuration", "not_found":
		return true
	default:
		return false
	}
}
