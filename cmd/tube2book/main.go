package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/tube2book/internal/cache"
	"github.com/nguyentantai21042004/tube2book/internal/config"
	"github.com/nguyentantai21042004/tube2book/internal/httpapi"
	"github.com/nguyentantai21042004/tube2book/internal/llm"
	"github.com/nguyentantai21042004/tube2book/internal/logger"
	"github.com/nguyentantai21042004/tube2book/internal/pipeline"
	"github.com/nguyentantai21042004/tube2book/internal/processor"
	"github.com/nguyentantai21042004/tube2book/internal/prompt"
	"github.com/nguyentantai21042004/tube2book/internal/render"
	"github.com/nguyentantai21042004/tube2book/internal/storage"
	"github.com/nguyentantai21042004/tube2book/internal/transcript"
	"github.com/nguyentantai21042004/tube2book/internal/watcher"
	"github.com/nguyentantai21042004/tube2book/pkg/executor"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to the YAML config file")
		batchFile  = flag.String("batch", "", "File with one URL, video id or transcript path per line")
		watch      = flag.Bool("watch", false, "Watch the input folder for transcript files")
		serve      = flag.Bool("serve", false, "Serve the HTTP API")
		lang       = flag.String("lang", "", "Preferred caption language (overrides config)")
		model      = flag.String("model", "", "Model name (overrides config)")
		noSave     = flag.Bool("no-save", false, "Print the summary instead of writing documents")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <youtube-url|video-id|transcript-file>...\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *lang != "" {
		cfg.Transcript.Language = *lang
	}
	if *model != "" {
		cfg.LLM.Model = *model
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "tube2book: YouTube transcript to book summary")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Provider: %s, model: %s", cfg.LLM.Provider, cfg.LLM.Model)
	log.Info(ctx, "Chunk threshold: %d chars, overlap: %d", cfg.Pipeline.ChunkThreshold, cfg.Pipeline.ChunkOverlap)

	app, err := build(ctx, cfg, log, *noSave)
	if err != nil {
		log.Error(ctx, "Failed to initialize: %v", err)
		os.Exit(1)
	}
	defer app.close()

	errChan := make(chan error, 1)
	go func() {
		errChan <- run(ctx, app, cfg, log, mode{batch: *batchFile, watch: *watch, serve: *serve, noSave: *noSave, refs: flag.Args()})
	}()

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
		cancel()
		err = <-errChan
	case err = <-errChan:
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "%v", err)
		app.close()
		os.Exit(1)
	}
	log.Info(ctx, "tube2book stopped")
}

type mode struct {
	batch  string
	watch  bool
	serve  bool
	noSave bool
	refs   []string
}

type application struct {
	proc  processor.Processor
	store cache.Store
}

func (a *application) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// build wires the processor from config
func build(ctx context.Context, cfg *config.Config, log logger.Logger, noSave bool) (*application, error) {
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	backend, err := llm.NewBackend(cfg.Backend(), log)
	if err != nil {
		return nil, fmt.Errorf("create LLM backend: %w", err)
	}

	tmpl := prompt.Default()
	if cfg.Pipeline.PromptFile != "" {
		if tmpl, err = prompt.Load(cfg.Pipeline.PromptFile); err != nil {
			return nil, fmt.Errorf("load prompt template: %w", err)
		}
	}

	store, err := cache.New(cfg.CacheStore())
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	pcfg := cfg.Pipeline()
	deps := processor.Deps{
		Source:   transcript.New(cfg.TranscriptSource(), executor.New(), log),
		Pipeline: pipeline.New(pcfg, backend, tmpl, log),
		Cache:    store,
		Logger:   log,
	}
	if !noSave {
		renderer, err := render.New(cfg.Output.Formats, log)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create renderer: %w", err)
		}
		deps.Renderer = renderer

		if cfg.Storage.Enabled {
			pub, err := storage.New(ctx, cfg.StorageTarget())
			if err != nil {
				store.Close()
				return nil, fmt.Errorf("connect object storage: %w", err)
			}
			deps.Publisher = pub
		}
	}

	proc := processor.New(deps, processor.Options{
		Model:          cfg.LLM.Model,
		TemplateHash:   tmpl.Hash(),
		Chunking:       pcfg.Chunking.Fingerprint(),
		OutputDir:      cfg.Output.Dir,
		TranscriptDocx: cfg.Output.TranscriptDocx,
		InputDir:       cfg.Paths.Input,
		ArchiveDir:     cfg.Paths.Archived,
		CacheTTL:       cfg.Cache.TTL,
		MaxConcurrent:  cfg.Performance.MaxConcurrent,
	})
	return &application{proc: proc, store: store}, nil
}

func run(ctx context.Context, app *application, cfg *config.Config, log logger.Logger, m mode) error {
	switch {
	case m.serve:
		return serveHTTP(ctx, app, cfg, log)
	case m.watch:
		return watchInput(ctx, app, cfg, log)
	case m.batch != "":
		f, err := os.Open(m.batch)
		if err != nil {
			return fmt.Errorf("open batch file: %w", err)
		}
		refs, err := processor.ReadRefs(f)
		f.Close()
		if err != nil {
			return err
		}
		return runBatch(ctx, app, log, append(refs, m.refs...), m.noSave)
	case len(m.refs) > 0:
		return runBatch(ctx, app, log, m.refs, m.noSave)
	default:
		flag.Usage()
		return errors.New("no input given")
	}
}

func runBatch(ctx context.Context, app *application, log logger.Logger, refs []string, noSave bool) error {
	var results []processor.BatchResult
	if len(refs) == 1 {
		out, err := app.proc.Process(ctx, refs[0])
		results = []processor.BatchResult{{Ref: refs[0], Outcome: out, Err: err}}
	} else {
		results = app.proc.ProcessBatch(ctx, refs)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", r.Ref, r.Err)
			continue
		}
		report(r.Outcome, noSave)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d references failed", failed, len(refs))
	}
	return nil
}

// report prints what a job produced. Without saving the summary itself is
// the output.
func report(out *processor.Outcome, noSave bool) {
	run := out.Run
	if noSave {
		fmt.Printf("# %s\n\n%s", out.Title, run.Summary.Markdown())
		return
	}
	fmt.Printf("%s: %s\n", out.Ref, out.Title)
	fmt.Printf("  parts: %d (failed %d), tokens: %d, cached: %v\n",
		run.ChunkCount, run.FailedChunks, run.Usage.Total(), out.Cached)
	if run.CoverageGap() {
		fmt.Printf("  warning: summary has coverage gaps\n")
	}
	for _, f := range out.Files {
		fmt.Printf("  saved: %s\n", f)
	}
	for _, o := range out.Published {
		fmt.Printf("  uploaded: %s\n", o.Key)
	}
}

func watchInput(ctx context.Context, app *application, cfg *config.Config, log logger.Logger) error {
	handler := func(ctx context.Context, path string) error {
		_, err := app.proc.Process(ctx, path)
		return err
	}
	w, err := watcher.New(watcher.Config{
		Dir:           cfg.Paths.Input,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
	}, handler, log)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Output.Dir)
	log.Info(ctx, "Press Ctrl+C to stop")
	return w.Start(ctx)
}

func serveHTTP(ctx context.Context, app *application, cfg *config.Config, log logger.Logger) error {
	srv := httpapi.New(app.proc, log)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start(cfg.Server.Addr) }()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "Shutting down HTTP API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
		cfg.Output.Dir,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
