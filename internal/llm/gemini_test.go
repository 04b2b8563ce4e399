package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/tube2book/internal/logger"
)

const geminiOK = `{"candidates":[{"content":{"role":"model","parts":[{"text":"## Conclusion\n"},{"text":"Done."}]}}],"usageMetadata":{"promptTokenCount":9,"candidatesTokenCount":4},"modelVersion":"gemini-2.5-flash"}`

const geminiQuota = `{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`

func TestGeminiRotatesKeysOnQuota(t *testing.T) {
	var mu sync.Mutex
	var keys []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("x-goog-api-key")
		mu.Lock()
		keys = append(keys, key)
		mu.Unlock()

		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if key == "first" {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(geminiQuota))
			return
		}
		w.Write([]byte(geminiOK))
	}))
	defer server.Close()

	backend, err := NewGemini(GeminiConfig{APIKeys: []string{"first", "second"}, BaseURL: server.URL}, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	resp, err := backend.Generate(context.Background(), Request{Prompt: "p", Model: "gemini-2.5-flash", System: "s"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "## Conclusion\nDone." {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.Usage.PromptTokens != 9 || resp.Usage.CompletionTokens != 4 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if len(keys) != 2 || keys[0] != "first" || keys[1] != "second" {
		t.Errorf("keys used = %v", keys)
	}

	// the rotated key stays current
	if _, err := backend.Generate(context.Background(), Request{Prompt: "p", Model: "gemini-2.5-flash"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if keys[len(keys)-1] != "second" {
		t.Errorf("second call used %q, want the rotated key", keys[len(keys)-1])
	}
}

func TestGeminiAllKeysExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(geminiQuota))
	}))
	defer server.Close()

	backend, err := NewGemini(GeminiConfig{APIKeys: []string{"a", "b"}, BaseURL: server.URL}, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = backend.Generate(context.Background(), Request{Prompt: "p", Model: "m"})
	if Classify(err) != KindRateLimited {
		t.Errorf("Classify() = %q, want rate_limited (err %v)", Classify(err), err)
	}
}

func TestGeminiErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind FailureKind
	}{
		{"bad key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, KindFatal},
		{"unavailable", http.StatusServiceUnavailable, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`, KindTransient},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, KindInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			backend, err := NewGemini(GeminiConfig{APIKeys: []string{"k"}, BaseURL: server.URL}, logger.NewNop())
			if err != nil {
				t.Fatal(err)
			}
			_, err = backend.Generate(context.Background(), Request{Prompt: "p", Model: "m"})
			if kind := Classify(err); kind != tt.wantKind {
				t.Errorf("Classify() = %q, want %q (err %v)", kind, tt.wantKind, err)
			}
		})
	}
}
