package processor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProcessBatch runs every reference with at most MaxConcurrent jobs in
// flight. Results come back in input order; one failure does not stop the
// others.
func (p *implProcessor) ProcessBatch(ctx context.Context, refs []string) []BatchResult {
	results := make([]BatchResult, len(refs))
	slots := newJobSlots(p.opts.MaxConcurrent)
	var wg sync.WaitGroup

	p.logger.Info(ctx, "Batch of %d references (max concurrent: %d)", len(refs), p.opts.MaxConcurrent)

	for i, ref := range refs {
		results[i].Ref = ref
		running, err := slots.take(ctx)
		if err != nil {
			results[i].Err = err
			continue
		}
		p.logger.Debug(ctx, "Starting %d/%d: %s (%d running)", i+1, len(refs), ref, running)
		wg.Add(1)
		go func(i int, ref string) {
			defer wg.Done()
			defer slots.give()

			out, err := p.Process(ctx, ref)
			results[i].Outcome, results[i].Err = out, err
			if err != nil {
				p.logger.Error(ctx, "Failed to process %s: %v", ref, err)
			}
		}(i, ref)
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.Info(ctx, "Batch finished: %d succeeded, %d failed", len(refs)-failed, failed)
	return results
}

// ReadRefs reads one reference per line, skipping blank lines and lines
// starting with '#'
func ReadRefs(r io.Reader) ([]string, error) {
	var refs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return refs, nil
}
