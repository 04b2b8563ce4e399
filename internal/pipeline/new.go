package pipeline

import (
	"time"

	"github.com/nguyentantai21042004/tube2book/internal/chunker"
	"github.com/nguyentantai21042004/tube2book/internal/llm"
	"github.com/nguyentantai21042004/tube2book/internal/logger"
	"github.com/nguyentantai21042004/tube2book/internal/prompt"
	"github.com/nguyentantai21042004/tube2book/internal/summary"
)

type implOrchestrator struct {
	invoker llm.Invoker
	logger  logger.Logger
}

// NewOrchestrator creates an Orchestrator that calls invoker once per chunk
func NewOrchestrator(invoker llm.Invoker, log logger.Logger) Orchestrator {
	return &implOrchestrator{
		invoker: invoker,
		logger:  log,
	}
}

type implController struct {
	cfg          Config
	splitter     chunker.Splitter
	invoker      llm.Invoker
	orchestrator Orchestrator
	tmpl         *prompt.Template
	logger       logger.Logger
	now          func() time.Time
}

// New creates a Controller around backend. A nil template selects the
// built-in book template. Responses without any recognised summary
// section are treated as invalid and retried once.
func New(cfg Config, backend llm.Backend, tmpl *prompt.Template, log logger.Logger) Controller {
	if tmpl == nil {
		tmpl = prompt.Default()
	}
	invoker := llm.NewInvoker(backend, cfg.LLM, log, llm.WithValidator(summary.Validate))

	return &implController{
		cfg:          cfg,
		splitter:     chunker.New(cfg.Chunking),
		invoker:      invoker,
		orchestrator: NewOrchestrator(invoker, log),
		tmpl:         tmpl,
		logger:       log,
		now:          time.Now,
	}
}
