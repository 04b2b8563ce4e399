package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/tube2book/internal/chunker"
	"github.com/nguyentantai21042004/tube2book/internal/logger"
	"github.com/nguyentantai21042004/tube2book/internal/prompt"
)

type fakeReply struct {
	text  string
	err   error
	usage Usage
}

// fakeBackend replays replies in order and repeats the last one
type fakeBackend struct {
	mu      sync.Mutex
	replies []fakeReply
	calls   int
	prompts []string
	onCall  func(ctx context.Context)
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Generate(ctx context.Context, req Request) (Response, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()

	if f.onCall != nil {
		f.onCall(ctx)
	}
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	r := f.replies[idx]
	return Response{Text: r.text, Model: req.Model, Usage: r.usage}, r.err
}

func testPolicy() Policy {
	return Policy{
		Model:       "test-model",
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}
}

func testTemplate(t *testing.T) *prompt.Template {
	t.Helper()
	tmpl, err := prompt.New("Summarize:\n{{.Transcript}}")
	if err != nil {
		t.Fatal(err)
	}
	return tmpl
}

var onlyFrame = prompt.Frame{Role: chunker.RoleOnly, Total: 1}

func TestInvokeRetryPolicy(t *testing.T) {
	transient := &Error{Kind: KindTransient, Err: errors.New("timeout")}
	limited := &Error{Kind: KindRateLimited, Err: errors.New("429")}
	fatal := &Error{Kind: KindFatal, Err: errors.New("401")}

	tests := []struct {
		name        string
		maxAttempts int
		replies     []fakeReply
		wantOK      bool
		wantKind    FailureKind
		wantCalls   int
	}{
		{name: "success first try", replies: []fakeReply{{text: "## Summary"}}, wantOK: true, wantKind: "", wantCalls: 1},
		{name: "transient is retried to the bound", replies: []fakeReply{{err: transient}}, wantOK: false, wantKind: KindTransient, wantCalls: 3},
		{name: "rate limited then success", replies: []fakeReply{{err: limited}, {text: "ok"}}, wantOK: true, wantKind: "", wantCalls: 2},
		{name: "rate limited to the bound", replies: []fakeReply{{err: limited}}, wantOK: false, wantKind: KindRateLimited, wantCalls: 3},
		{name: "fatal is never retried", replies: []fakeReply{{err: fatal}, {text: "unreachable"}}, wantOK: false, wantKind: KindFatal, wantCalls: 1},
		{name: "unclassified error counts as transient", replies: []fakeReply{{err: errors.New("boom")}}, wantOK: false, wantKind: KindTransient, wantCalls: 3},
		{name: "empty response retried once", replies: []fakeReply{{text: "  "}, {text: "fixed"}}, wantOK: true, wantKind: "", wantCalls: 2},
		{name: "invalid twice stops", replies: []fakeReply{{text: ""}}, wantOK: false, wantKind: KindInvalidResponse, wantCalls: 2},
		{name: "strict retry does not use the transient budget", replies: []fakeReply{{text: ""}, {err: transient}}, wantOK: false, wantKind: KindTransient, wantCalls: 4},
		{name: "single attempt still gets the strict retry", maxAttempts: 1, replies: []fakeReply{{text: ""}, {text: "## Summary"}}, wantOK: true, wantKind: "", wantCalls: 2},
		{name: "single attempt transient is not retried", maxAttempts: 1, replies: []fakeReply{{err: transient}}, wantOK: false, wantKind: KindTransient, wantCalls: 1},
		{name: "invalid after transient budget gets strict retry", replies: []fakeReply{{err: transient}, {err: transient}, {text: ""}, {text: "fixed"}}, wantOK: true, wantKind: "", wantCalls: 4},
		{name: "invalid after transient budget stops after strict retry", replies: []fakeReply{{err: transient}, {err: transient}, {text: ""}}, wantOK: false, wantKind: KindInvalidResponse, wantCalls: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := testPolicy()
			if tt.maxAttempts > 0 {
				policy.MaxAttempts = tt.maxAttempts
			}
			backend := &fakeBackend{replies: tt.replies}
			inv := NewInvoker(backend, policy, logger.NewNop())

			res := inv.Invoke(context.Background(), testTemplate(t), prompt.Input{Transcript: "hello"}, onlyFrame)

			if res.OK != tt.wantOK {
				t.Errorf("OK = %v, want %v (err %v)", res.OK, tt.wantOK, res.Err)
			}
			if res.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", res.Kind, tt.wantKind)
			}
			if backend.calls != tt.wantCalls {
				t.Errorf("backend called %d times, want %d", backend.calls, tt.wantCalls)
			}
			if res.Attempts != tt.wantCalls {
				t.Errorf("Attempts = %d, want %d", res.Attempts, tt.wantCalls)
			}
			if !res.OK && res.Err == nil {
				t.Error("failed result carries no error")
			}
		})
	}
}

func TestInvokeStrictReminderOnInvalid(t *testing.T) {
	backend := &fakeBackend{replies: []fakeReply{{text: ""}, {text: "good"}}}
	inv := NewInvoker(backend, testPolicy(), logger.NewNop())

	res := inv.Invoke(context.Background(), testTemplate(t), prompt.Input{Transcript: "hello"}, onlyFrame)
	if !res.OK || res.Text != "good" {
		t.Fatalf("Invoke() = %+v", res)
	}
	if strings.Contains(backend.prompts[0], "IMPORTANT") {
		t.Error("first prompt already has the strict reminder")
	}
	if !strings.Contains(backend.prompts[1], "IMPORTANT") {
		t.Error("retry prompt lacks the strict reminder")
	}
}

func TestInvokeValidator(t *testing.T) {
	backend := &fakeBackend{replies: []fakeReply{{text: "no headings"}, {text: "## Conclusion\nDone"}}}
	requireHeading := func(text string) error {
		if !strings.Contains(text, "## ") {
			return errors.New("no section heading")
		}
		return nil
	}
	inv := NewInvoker(backend, testPolicy(), logger.NewNop(), WithValidator(requireHeading))

	res := inv.Invoke(context.Background(), testTemplate(t), prompt.Input{Transcript: "x"}, onlyFrame)
	if !res.OK {
		t.Fatalf("Invoke() failed: %v", res.Err)
	}
	if backend.calls != 2 {
		t.Errorf("backend called %d times, want 2", backend.calls)
	}
}

func TestInvokeFramingReachesBackend(t *testing.T) {
	backend := &fakeBackend{replies: []fakeReply{{text: "ok"}}}
	inv := NewInvoker(backend, testPolicy(), logger.NewNop())

	frame := prompt.Frame{Role: chunker.RoleMiddle, Index: 1, Total: 3}
	inv.Invoke(context.Background(), testTemplate(t), prompt.Input{Transcript: "x"}, frame)

	if !strings.Contains(backend.prompts[0], "part 2 of 3") {
		t.Errorf("prompt lacks role framing: %q", backend.prompts[0])
	}
}

func TestInvokeUsageAccumulates(t *testing.T) {
	backend := &fakeBackend{replies: []fakeReply{
		{err: &Error{Kind: KindTransient, Err: errors.New("x")}, usage: Usage{PromptTokens: 5}},
		{text: "ok", usage: Usage{PromptTokens: 10, CompletionTokens: 20}},
	}}
	inv := NewInvoker(backend, testPolicy(), logger.NewNop())

	res := inv.Invoke(context.Background(), testTemplate(t), prompt.Input{Transcript: "x"}, onlyFrame)
	if res.Usage.PromptTokens != 15 || res.Usage.CompletionTokens != 20 || res.Usage.Total() != 35 {
		t.Errorf("Usage = %+v", res.Usage)
	}
}

func TestInvokeEstimatesMissingUsage(t *testing.T) {
	reply := strings.Repeat("word ", 40)
	backend := &fakeBackend{replies: []fakeReply{{text: reply}}}
	inv := NewInvoker(backend, testPolicy(), logger.NewNop())

	res := inv.Invoke(context.Background(), testTemplate(t), prompt.Input{Transcript: strings.Repeat("x", 400)}, onlyFrame)
	if !res.OK {
		t.Fatalf("Invoke() failed: %v", res.Err)
	}
	if res.Usage.CompletionTokens != EstimateTokens(reply) {
		t.Errorf("CompletionTokens = %d, want %d", res.Usage.CompletionTokens, EstimateTokens(reply))
	}
	if want := EstimateTokens(prompt.System) + EstimateTokens(backend.prompts[0]); res.Usage.PromptTokens != want {
		t.Errorf("PromptTokens = %d, want %d", res.Usage.PromptTokens, want)
	}
	if res.Usage.PromptTokens < 100 {
		t.Errorf("PromptTokens = %d, want at least the transcript estimate", res.Usage.PromptTokens)
	}
}

func TestInvokeCancelledBeforeCall(t *testing.T) {
	backend := &fakeBackend{replies: []fakeReply{{text: "ok"}}}
	inv := NewInvoker(backend, testPolicy(), logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := inv.Invoke(ctx, testTemplate(t), prompt.Input{Transcript: "x"}, onlyFrame)
	if res.OK {
		t.Fatal("Invoke() succeeded on a cancelled context")
	}
	if backend.calls != 0 {
		t.Errorf("backend called %d times, want 0", backend.calls)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", res.Err)
	}
}

func TestInvokeCancelMidCallIsNotObservedByBackend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sawCancelled bool
	backend := &fakeBackend{
		replies: []fakeReply{{err: &Error{Kind: KindTransient, Err: errors.New("slow")}}},
		onCall: func(callCtx context.Context) {
			cancel()
			sawCancelled = callCtx.Err() != nil
		},
	}
	policy := testPolicy()
	policy.BaseDelay = time.Second
	policy.MaxDelay = time.Second
	inv := NewInvoker(backend, policy, logger.NewNop())

	start := time.Now()
	res := inv.Invoke(ctx, testTemplate(t), prompt.Input{Transcript: "x"}, onlyFrame)

	if sawCancelled {
		t.Error("in-flight call observed caller cancellation")
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1", backend.calls)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", res.Err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("backoff wait ignored cancellation")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"tagged", &Error{Kind: KindFatal, Err: errors.New("x")}, KindFatal},
		{"wrapped tag", errors.Join(errors.New("ctx"), &Error{Kind: KindRateLimited, Err: errors.New("x")}), KindRateLimited},
		{"deadline", context.DeadlineExceeded, KindTransient},
		{"plain", errors.New("x"), KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
