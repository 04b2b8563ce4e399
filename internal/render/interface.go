package render

import "context"

// Renderer writes a finished summary to disk in every configured format
type Renderer interface {
	// Render writes one file per format (plus the transcript document when
	// the document carries a transcript and docx is enabled) and returns
	// the paths written, in format order.
	Render(ctx context.Context, doc Document, dir string) ([]string, error)
	Formats() []Format
}
