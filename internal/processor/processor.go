package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/tube2book/internal/cache"
	"github.com/nguyentantai21042004/tube2book/internal/pipeline"
	"github.com/nguyentantai21042004/tube2book/internal/render"
	"github.com/nguyentantai21042004/tube2book/internal/textnorm"
	"github.com/nguyentantai21042004/tube2book/internal/transcript"
	"github.com/nguyentantai21042004/tube2book/pkg/runctx"
)

const originText = "text"

var ErrSummarize = errors.New("summarization failed")

// Process fetches the transcript for ref and runs the whole job. A local
// transcript file from the input folder is moved to the archive folder
// once its summary is saved.
func (p *implProcessor) Process(ctx context.Context, ref string) (*Outcome, error) {
	return p.process(ctx, ref, ref)
}

// ProcessRemote accepts only YouTube URLs and video ids. The reference is
// turned into a canonical watch URL so it can never name a local file.
func (p *implProcessor) ProcessRemote(ctx context.Context, ref string) (*Outcome, error) {
	id, err := transcript.ExtractVideoID(ref)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}
	return p.process(ctx, ref, transcript.WatchURL(id))
}

func (p *implProcessor) process(ctx context.Context, ref, fetchRef string) (*Outcome, error) {
	start := time.Now()
	ctx = runctx.WithSource(ctx, ref)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting: %s", ref)
	p.logger.Info(ctx, "========================================")

	tr, err := p.source.Fetch(ctx, fetchRef)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}
	p.logger.Info(ctx, "Transcript fetched: %q (%d chars, origin %s)", tr.Title, len(tr.Text), tr.Origin)

	out, err := p.run(ctx, ref, tr)
	if out != nil {
		out.Elapsed = time.Since(start)
	}
	if err != nil {
		return out, err
	}

	if tr.Origin == transcript.OriginFile && p.inInputDir(fetchRef) {
		archived, err := p.moveToArchived(ctx, fetchRef)
		if err != nil {
			p.logger.Warn(ctx, "Failed to move transcript to archived folder: %v", err)
		} else {
			out.Archived = archived
		}
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	for _, f := range out.Files {
		p.logger.Info(ctx, "Output: %s", f)
	}
	p.logger.Info(ctx, "Processing time: %s", out.Elapsed.Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")
	return out, nil
}

// ProcessText runs the job on text supplied by the caller
func (p *implProcessor) ProcessText(ctx context.Context, req TextRequest) (*Outcome, error) {
	start := time.Now()
	tr := &transcript.Transcript{
		Title:    req.Title,
		Language: req.Language,
		Text:     req.Text,
		Origin:   originText,
	}
	out, err := p.run(ctx, "", tr)
	if out != nil {
		out.Elapsed = time.Since(start)
	}
	return out, err
}

func (p *implProcessor) run(ctx context.Context, ref string, tr *transcript.Transcript) (*Outcome, error) {
	text := textnorm.Normalize(tr.Text)
	out := &Outcome{
		Ref:     ref,
		VideoID: tr.VideoID,
		Title:   tr.Title,
		Origin:  tr.Origin,
		Stats:   textnorm.ComputeStats(text, tr.Duration),
	}

	key := cache.Key(p.opts.Model, p.opts.TemplateHash, p.opts.Chunking, text)
	if run, ok := p.lookup(ctx, key); ok {
		p.logger.Info(ctx, "Using cached summary %s", run.ID)
		// same text, but the caller's title and source win
		meta := &run.Summary.Meta
		meta.Title, meta.VideoID, meta.URL, meta.Language = tr.Title, tr.VideoID, tr.URL, tr.Language
		out.Run, out.Cached = run, true
	} else {
		out.Run = p.pipeline.Summarize(ctx, pipeline.Request{
			Text:     text,
			Title:    tr.Title,
			Language: tr.Language,
			VideoID:  tr.VideoID,
			URL:      tr.URL,
		})
		if !out.Run.Success {
			return out, fmt.Errorf("%w (%s): %w", ErrSummarize, out.Run.ErrKind, out.Run.Err)
		}
		// a summary with gaps is worth retrying later
		if !out.Run.CoverageGap() {
			p.store(ctx, key, out.Run)
		}
	}

	if p.renderer == nil {
		return out, nil
	}

	doc := render.Document{
		Summary:  out.Run.Summary,
		Stats:    out.Stats,
		Duration: tr.Duration,
	}
	if p.opts.TranscriptDocx {
		doc.Transcript = text
	}
	files, err := p.renderer.Render(ctx, doc, p.opts.OutputDir)
	out.Files = files
	if err != nil {
		return out, fmt.Errorf("render: %w", err)
	}

	if p.publisher != nil && len(files) > 0 {
		prefix := tr.VideoID
		if prefix == "" {
			prefix = out.Run.ID.String()
		}
		objs, err := p.publisher.Publish(ctx, prefix, files)
		out.Published = objs
		if err != nil {
			p.logger.Warn(ctx, "Failed to publish outputs: %v", err)
		}
	}
	return out, nil
}

func (p *implProcessor) lookup(ctx context.Context, key string) (*pipeline.Run, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn(ctx, "Cache lookup failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var run pipeline.Run
	if err := json.Unmarshal(data, &run); err != nil || run.Summary == nil {
		p.logger.Warn(ctx, "Discarding unreadable cache entry %s", key)
		return nil, false
	}
	return &run, true
}

func (p *implProcessor) store(ctx context.Context, key string, run *pipeline.Run) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(run)
	if err != nil {
		p.logger.Warn(ctx, "Failed to encode run for cache: %v", err)
		return
	}
	if err := p.cache.Set(ctx, key, data, p.opts.CacheTTL); err != nil {
		p.logger.Warn(ctx, "Failed to cache summary: %v", err)
	}
}
