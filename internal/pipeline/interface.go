package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/tube2book/internal/chunker"
	"github.com/nguyentantai21042004/tube2book/internal/prompt"
)

// Orchestrator summarizes the chunks of one transcript in order
type Orchestrator interface {
	ProcessChunks(ctx context.Context, chunks []chunker.Chunk, tmpl *prompt.Template, in prompt.Input) (Batch, error)
}

// Controller is the entry point for summarizing one transcript
type Controller interface {
	Summarize(ctx context.Context, req Request) *Run
}
