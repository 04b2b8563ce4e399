package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/tube2book/internal/chunker"
	"github.com/nguyentantai21042004/tube2book/internal/llm"
	"github.com/nguyentantai21042004/tube2book/internal/prompt"
	"github.com/nguyentantai21042004/tube2book/internal/summary"
	"github.com/nguyentantai21042004/tube2book/pkg/runctx"
)

// Summarize runs one transcript through the single-shot or chunked path.
// Partial chunk failure is not a run failure; zero successful chunks,
// a fatal backend error, bad input, bad chunking config and cancellation
// are.
func (c *implController) Summarize(ctx context.Context, req Request) *Run {
	run := &Run{ID: uuid.New(), StartedAt: c.now()}
	ctx = runctx.WithRunID(ctx, run.ID)
	defer func() {
		run.Elapsed = c.now().Sub(run.StartedAt)
		c.logger.Info(ctx, "Run finished: success=%v chunks=%d failed=%d elapsed=%s",
			run.Success, run.ChunkCount, run.FailedChunks, run.Elapsed)
	}()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.fail(ctx, run, KindInput, ErrInput)
		return run
	}

	chunks, err := c.splitter.Split(text)
	if err != nil {
		kind := KindChunking
		if errors.Is(err, chunker.ErrEmptyInput) {
			kind = KindInput
		}
		c.fail(ctx, run, kind, err)
		return run
	}
	run.ChunkCount = len(chunks)
	run.Chunked = len(chunks) > 1

	in := prompt.Input{Title: req.Title, Language: req.Language}
	var batch Batch

	if !run.Chunked {
		c.logger.Info(ctx, "Transcript fits in one request (%d chars), using single-shot path", utf8.RuneCountInString(text))
		in.Transcript = chunks[0].Text
		res := c.invoker.Invoke(ctx, c.tmpl, in, prompt.Frame{Role: chunker.RoleOnly, Total: 1})
		batch.Usage = res.Usage
		if !res.OK {
			batch.Partials = []summary.Partial{failedPartial(chunks[0], 1, res)}
			c.record(run, batch)
			if ctx.Err() != nil {
				c.fail(ctx, run, KindCancelled, res.Err)
			} else {
				c.fail(ctx, run, kindOf(res.Kind), res.Err)
			}
			return run
		}
		batch.Partials = []summary.Partial{{Index: 0, Role: chunker.RoleOnly, Text: res.Text, OK: true}}
	} else {
		c.logger.Info(ctx, "Transcript split into %d parts", len(chunks))
		batch, err = c.orchestrator.ProcessChunks(ctx, chunks, c.tmpl, in)
		c.record(run, batch)
		if err != nil {
			kind := kindOf(llm.Classify(err))
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				kind = KindCancelled
			}
			c.fail(ctx, run, kind, err)
			return run
		}
		if run.FailedChunks == run.ChunkCount {
			last := batch.Partials[len(batch.Partials)-1]
			c.fail(ctx, run, kindOf(llm.FailureKind(last.Kind)), fmt.Errorf("%w: %d parts failed", ErrAllChunksFailed, run.ChunkCount))
			return run
		}
	}
	c.record(run, batch)

	meta := summary.Metadata{
		VideoID:          req.VideoID,
		Title:            req.Title,
		URL:              req.URL,
		Language:         req.Language,
		Model:            c.cfg.LLM.Model,
		Chunked:          run.Chunked,
		Characters:       utf8.RuneCountInString(text),
		PromptTokens:     batch.Usage.PromptTokens,
		CompletionTokens: batch.Usage.CompletionTokens,
		EstimatedCostUSD: llm.EstimateCost(c.cfg.LLM.Model, batch.Usage),
		GeneratedAt:      c.now(),
		Elapsed:          c.now().Sub(run.StartedAt),
	}

	run.Summary = summary.Merge(batch.Partials, meta)
	run.Notes = run.Summary.Notes
	run.Success = true

	if run.CoverageGap() {
		c.logger.Warn(ctx, "Summary has coverage gaps: %d of %d parts failed", run.FailedChunks, run.ChunkCount)
	}
	return run
}

// record copies the batch into the run. Chunks never attempted count as
// failed.
func (c *implController) record(run *Run, batch Batch) {
	run.Partials = batch.Partials
	run.Usage = batch.Usage
	ok := len(batch.Partials) - batch.Failed()
	run.FailedChunks = run.ChunkCount - ok
}

func (c *implController) fail(ctx context.Context, run *Run, kind ErrorKind, err error) {
	run.Success = false
	run.ErrKind = kind
	run.Err = err
	if err != nil {
		run.Error = err.Error()
	}
	c.logger.Error(ctx, "Run failed (%s): %v", kind, err)
}
