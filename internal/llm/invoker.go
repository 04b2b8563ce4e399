package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nguyentantai21042004/tube2book/internal/prompt"
)

// Invoke renders the prompt, calls the backend and retries per policy:
// rate limits and transient errors up to MaxAttempts in total with
// exponential backoff, an invalid response once with a stricter prompt,
// fatal errors never. The strict retry is an extra attempt on top of
// MaxAttempts. Cancellation is observed between attempts only.
func (i *implInvoker) Invoke(ctx context.Context, tmpl *prompt.Template, in prompt.Input, f prompt.Frame) Result {
	start := time.Now()
	res := Result{}

	strict := false
	strictUsed := false
	strictPending := false
	regular := 0
	var last *Error

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		res.Attempts++
		if strictPending {
			strictPending = false
		} else {
			regular++
		}
		text, err := tmpl.Render(in, f, strict)
		if err != nil {
			last = &Error{Kind: KindFatal, Err: err}
			return backoff.Permanent(last)
		}

		resp, err := i.call(ctx, text)
		res.Usage.Add(resp.Usage)
		if err == nil {
			err = i.validate(resp.Text)
		}
		if err == nil {
			res.Text = resp.Text
			return nil
		}

		last = &Error{Kind: Classify(err), Err: err}
		switch last.Kind {
		case KindFatal:
			return backoff.Permanent(last)
		case KindInvalidResponse:
			if strictUsed {
				return backoff.Permanent(last)
			}
			strict, strictUsed, strictPending = true, true, true
			return last
		}
		if regular >= i.policy.MaxAttempts {
			return backoff.Permanent(last)
		}
		return last
	}

	notify := func(err error, wait time.Duration) {
		i.logger.Warn(ctx, "%s attempt %d/%d for part %d failed: %v (retrying in %s)",
			i.backend.Name(), res.Attempts, i.policy.MaxAttempts, f.Index+1, err, wait.Round(time.Millisecond))
	}

	b := backoff.WithContext(i.newBackOff(), ctx)
	err := backoff.RetryNotify(operation, b, notify)
	res.Elapsed = time.Since(start)

	if err == nil {
		res.OK = true
		return res
	}

	res.Err = err
	if last != nil {
		res.Kind = last.Kind
	}
	if ctx.Err() != nil {
		res.Err = fmt.Errorf("invocation cancelled after %d attempts: %w", res.Attempts, ctx.Err())
	}
	i.logger.Error(ctx, "%s gave up on part %d after %d attempts: %v", i.backend.Name(), f.Index+1, res.Attempts, res.Err)
	return res
}

// call runs one backend request. The request is detached from caller
// cancellation and bounded by the request timeout instead. Usage the
// backend does not report is estimated from the text.
func (i *implInvoker) call(ctx context.Context, text string) (Response, error) {
	callCtx := context.WithoutCancel(ctx)
	if i.policy.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, i.policy.RequestTimeout)
		defer cancel()
	}

	resp, err := i.backend.Generate(callCtx, Request{
		Prompt:      text,
		System:      prompt.System,
		Model:       i.policy.Model,
		MaxTokens:   i.policy.MaxTokens,
		Temperature: i.policy.Temperature,
	})
	// some OpenAI-compatible servers omit usage
	if err == nil && resp.Usage.Total() == 0 {
		resp.Usage = Usage{
			PromptTokens:     EstimateTokens(prompt.System) + EstimateTokens(text),
			CompletionTokens: EstimateTokens(resp.Text),
		}
	}
	return resp, err
}

func (i *implInvoker) validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return &Error{Kind: KindInvalidResponse, Err: ErrEmptyResponse}
	}
	if i.validator != nil {
		if err := i.validator(text); err != nil {
			return &Error{Kind: KindInvalidResponse, Err: err}
		}
	}
	return nil
}
