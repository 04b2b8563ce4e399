package processor

import (
	"github.com/nguyentantai21042004/tube2book/internal/cache"
	"github.com/nguyentantai21042004/tube2book/internal/logger"
	"github.com/nguyentantai21042004/tube2book/internal/pipeline"
	"github.com/nguyentantai21042004/tube2book/internal/render"
	"github.com/nguyentantai21042004/tube2book/internal/storage"
	"github.com/nguyentantai21042004/tube2book/internal/transcript"
)

// Deps are the collaborators of a Processor. Renderer, Cache and Publisher
// are optional.
type Deps struct {
	Source    transcript.Source
	Pipeline  pipeline.Controller
	Renderer  render.Renderer
	Cache     cache.Store
	Publisher storage.Publisher
	Logger    logger.Logger
}

type implProcessor struct {
	opts      Options
	source    transcript.Source
	pipeline  pipeline.Controller
	renderer  render.Renderer
	cache     cache.Store
	publisher storage.Publisher
	logger    logger.Logger
}

// New creates a new Processor instance
func New(deps Deps, opts Options) Processor {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	return &implProcessor{
		opts:      opts,
		source:    deps.Source,
		pipeline:  deps.Pipeline,
		renderer:  deps.Renderer,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		logger:    deps.Logger,
	}
}
