package pipeline

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/tube2book/internal/chunker"
	"github.com/nguyentantai21042004/tube2book/internal/llm"
	"github.com/nguyentantai21042004/tube2book/internal/prompt"
	"github.com/nguyentantai21042004/tube2book/internal/summary"
)

// ProcessChunks invokes the model for each chunk in ordinal order. A chunk
// that fails after retries becomes a failed partial and the run goes on,
// except on a fatal failure, which stops the sequence. Cancellation is
// checked between chunks; partials completed so far are returned together
// with the error.
func (o *implOrchestrator) ProcessChunks(ctx context.Context, chunks []chunker.Chunk, tmpl *prompt.Template, in prompt.Input) (Batch, error) {
	var batch Batch
	total := len(chunks)

	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			o.logger.Warn(ctx, "Run cancelled before part %d of %d", c.Index+1, total)
			return batch, fmt.Errorf("cancelled after %d of %d parts: %w", len(batch.Partials), total, err)
		}

		o.logger.Info(ctx, "Summarizing part %d of %d (%s, %d chars)", c.Index+1, total, c.Role, len([]rune(c.Text)))

		chunkIn := in
		chunkIn.Transcript = c.Text
		res := o.invoker.Invoke(ctx, tmpl, chunkIn, prompt.Frame{Role: c.Role, Index: c.Index, Total: total})
		batch.Usage.Add(res.Usage)

		if res.OK {
			batch.Partials = append(batch.Partials, summary.Partial{
				Index: c.Index,
				Role:  c.Role,
				Text:  res.Text,
				OK:    true,
			})
			o.logger.Info(ctx, "Part %d of %d done in %s (%d attempts)", c.Index+1, total, res.Elapsed, res.Attempts)
			continue
		}

		batch.Partials = append(batch.Partials, failedPartial(c, total, res))
		if err := ctx.Err(); err != nil {
			return batch, fmt.Errorf("cancelled during part %d of %d: %w", c.Index+1, total, err)
		}
		if res.Kind == llm.KindFatal {
			o.logger.Error(ctx, "Fatal failure on part %d of %d, skipping the remaining parts", c.Index+1, total)
			return batch, fmt.Errorf("part %d of %d: %w", c.Index+1, total, res.Err)
		}
		o.logger.Warn(ctx, "Part %d of %d could not be summarized (%s), continuing", c.Index+1, total, res.Kind)
	}

	return batch, nil
}

func failedPartial(c chunker.Chunk, total int, res llm.Result) summary.Partial {
	kind := string(res.Kind)
	if kind == "" {
		kind = string(KindCancelled)
	}
	msg := ""
	if res.Err != nil {
		msg = res.Err.Error()
	}
	return summary.Partial{
		Index:   c.Index,
		Role:    c.Role,
		Text:    fmt.Sprintf("[Part %d of %d could not be summarized: %s]", c.Index+1, total, kind),
		Kind:    kind,
		Message: msg,
	}
}
