package llm

import (
	"context"

	"github.com/nguyentantai21042004/tube2book/internal/prompt"
)

// Backend performs a single generation request. Errors should be *Error so
// the invoker knows whether to retry.
type Backend interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

// Invoker wraps one prompt/response cycle with validation and retries
type Invoker interface {
	Invoke(ctx context.Context, tmpl *prompt.Template, in prompt.Input, f prompt.Frame) Result
}

// Validator inspects a response and returns an error if it is unusable
type Validator func(text string) error
