package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	projectKey contextKey = "project"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithProject annotates context with the project folder name.
func WithProject(ctx context.Context, folder string) context.Context {
	if folder == "" {
		return ctx
	}
	return context.WithValue(ctx, projectKey, folder)
}

// ProjectFromContext returns the project folder name if present.
func ProjectFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(projectKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
