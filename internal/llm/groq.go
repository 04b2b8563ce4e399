package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultGroqURL = "https://api.groq.com"

// groqBackend talks to Groq's OpenAI-compatible chat completions endpoint
type groqBackend struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// GroqConfig configures the Groq backend
type GroqConfig struct {
	APIKey            string
	BaseURL           string
	RequestsPerMinute int
	Timeout           time.Duration
}

// NewGroq creates a Groq backend. RequestsPerMinute <= 0 disables pacing.
func NewGroq(cfg GroqConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: %w", ErrNoAPIKey)
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultGroqURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &groqBackend{
		apiKey:  cfg.APIKey,
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
		limiter: newLimiter(cfg.RequestsPerMinute),
	}, nil
}

// chatMessage is one entry of the messages array
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the shape for chat completion requests
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatResponse is the subset of the completion response we read
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (g *groqBackend) Name() string {
	return "groq"
}

// Generate sends one chat completion request
func (g *groqBackend) Generate(ctx context.Context, req Request) (Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Response{}, newError(KindTransient, "wait for rate limiter: %w", err)
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return Response{}, newError(KindFatal, "encode request: %w", err)
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, newError(KindFatal, "build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Response{}, newError(KindTransient, "groq request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Response{}, newError(statusKind(resp.StatusCode), "groq returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Response{}, newError(KindInvalidResponse, "decode groq response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return Response{}, newError(KindInvalidResponse, "groq response has no choices")
	}

	model := cr.Model
	if model == "" {
		model = req.Model
	}
	return Response{
		Text:  cr.Choices[0].Message.Content,
		Model: model,
		Usage: Usage{
			PromptTokens:     cr.Usage.PromptTokens,
			CompletionTokens: cr.Usage.CompletionTokens,
		},
	}, nil
}

// statusKind maps an HTTP status onto a FailureKind
func statusKind(code int) FailureKind {
	switch {
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code == http.StatusRequestTimeout || code >= 500:
		return KindTransient
	default:
		// auth, bad request, unknown model, payload too large
		return KindFatal
	}
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}
