package logging

import (
	"context"
	"log/slog"

	"easyanki/internal/services"
)

// Structured field keys shared by every package that logs.
const (
	FieldComponent       = "component"
	FieldVideoKey        = "video_key"
	FieldStage           = "stage"
	FieldCorrelationID   = "correlation_id"
	FieldEventType       = "event_type"
	FieldErrorHint       = "error_hint"
	FieldImpact          = "impact"
	FieldProgressPercent = "progress_percent"
)

// scopeAttrs turns the run scope on ctx into log fields, skipping unset ones.
func scopeAttrs(ctx context.Context) []any {
	scope := services.ScopeFromContext(ctx)
	var args []any
	for _, f := range [...]struct{ key, value string }{
		{FieldVideoKey, scope.VideoKey},
		{FieldStage, scope.Stage},
		{FieldCorrelationID, scope.RequestID},
	} {
		if f.value != "" {
			args = append(args, slog.String(f.key, f.value))
		}
	}
	return args
}

// WithContext returns logger tagged with the video key, stage and run id
// carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	args := scopeAttrs(ctx)
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
