package processor

import "context"

// Processor runs one transcript at a time through fetch, summarize, render
// and publish
type Processor interface {
	Process(ctx context.Context, ref string) (*Outcome, error)
	ProcessRemote(ctx context.Context, ref string) (*Outcome, error)
	ProcessText(ctx context.Context, req TextRequest) (*Outcome, error)
	ProcessBatch(ctx context.Context, refs []string) []BatchResult
}
