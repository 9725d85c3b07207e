package services

import "context"

// Scope carries the identifiers attached to log records for one unit of work.
// Empty fields are unset.
type Scope struct {
	VideoKey  string
	Stage     string
	RequestID string
}

type scopeKey struct{}

// ScopeFromContext returns the scope stored on ctx, or the zero Scope.
func ScopeFromContext(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}

func withScope(ctx context.Context, update func(*Scope)) context.Context {
	s := ScopeFromContext(ctx)
	update(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithVideoKey records the catalog key of the video being processed.
func WithVideoKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return withScope(ctx, func(s *Scope) { s.VideoKey = key })
}

// WithStage records the pipeline stage currently running.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return withScope(ctx, func(s *Scope) { s.Stage = stage })
}

// WithRequestID records the run identifier shared by every stage of one run.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return withScope(ctx, func(s *Scope) { s.RequestID = id })
}

func VideoKeyFromContext(ctx context.Context) (string, bool) {
	key := ScopeFromContext(ctx).VideoKey
	return key, key != ""
}

func StageFromContext(ctx context.Context) (string, bool) {
	stage := ScopeFromContext(ctx).Stage
	return stage, stage != ""
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	id := ScopeFromContext(ctx).RequestID
	return id, id != ""
}
