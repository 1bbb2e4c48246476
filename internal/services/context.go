package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	batchIndexKey contextKey = "batch_index"
	folderKey     contextKey = "folder"
)

// WithRunID annotates context with the ingest run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the ingest run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithBatchIndex annotates context with the 0-based classification batch index.
func WithBatchIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, batchIndexKey, index)
}

// BatchIndexFromContext returns the batch index if present.
func BatchIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(batchIndexKey).(int)
	return v, ok
}

// WithFolder annotates context with the folder name a request works on.
func WithFolder(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, folderKey, name)
}

// FolderFromContext returns the folder name if present.
func FolderFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(folderKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
