package runctx

import (
	"context"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyRunID  KeyContext = "run_id"
	keySource KeyContext = "source"
)

// WithRunID attaches a pipeline run id to the context
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, keyRunID, id)
}

// GetRunID extracts the run id from context
func GetRunID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyRunID).(uuid.UUID)
	return id, ok
}

// WithSource records which transcript reference the run is working on
func WithSource(ctx context.Context, ref string) context.Context {
	return context.WithValue(ctx, keySource, ref)
}

// GetSource extracts the transcript reference from context
func GetSource(ctx context.Context) (string, bool) {
	ref, ok := ctx.Value(keySource).(string)
	return ref, ok && ref != ""
}
