package services_test

import (
	"context"
	"testing"

	"easyanki/internal/services"
)

func TestScopeAccumulates(t *testing.T) {
	ctx := services.WithVideoKey(context.Background(), "easy_polish_42")
	ctx = services.WithRequestID(ctx, "req-123")
	parent := ctx
	ctx = services.WithStage(ctx, "segmentize")

	want := services.Scope{VideoKey: "easy_polish_42", Stage: "segmentize", RequestID: "req-123"}
	if got := services.ScopeFromContext(ctx); got != want {
		t.Fatalf("ScopeFromContext() = %+v, want %+v", got, want)
	}
	if _, ok := services.StageFromContext(parent); ok {
		t.Fatal("stage leaked into the parent context")
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("RequestIDFromContext() = %q, %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	base := services.WithVideoKey(context.Background(), "lesson")
	tests := []struct {
		name  string
		apply func(context.Context) context.Context
	}{
		{"stage", func(ctx context.Context) context.Context { return services.WithStage(ctx, "") }},
		{"video key", func(ctx context.Context) context.Context { return services.WithVideoKey(ctx, "") }},
		{"request id", func(ctx context.Context) context.Context { return services.WithRequestID(ctx, "") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.apply(base); got != base {
				t.Fatal("expected the same context back")
			}
		})
	}
	if key, ok := services.VideoKeyFromContext(base); !ok || key != "lesson" {
		t.Fatalf("VideoKeyFromContext() = %q, %v", key, ok)
	}
}
