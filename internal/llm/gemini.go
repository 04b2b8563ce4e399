package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/tube2book/internal/logger"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiBackend rotates through API keys when one runs out of quota
type geminiBackend struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	baseURL    string
	limiter    *rate.Limiter
	logger     logger.Logger
}

// GeminiConfig configures the Gemini backend
type GeminiConfig struct {
	APIKeys           []string
	BaseURL           string
	RequestsPerMinute int
}

// NewGemini creates a Gemini backend that rotates through the supplied keys
func NewGemini(cfg GeminiConfig, log logger.Logger) (Backend, error) {
	var keys []string
	for _, k := range cfg.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("gemini: %w", ErrNoAPIKey)
	}

	return &geminiBackend{
		apiKeys: keys,
		baseURL: cfg.BaseURL,
		limiter: newLimiter(cfg.RequestsPerMinute),
		logger:  log,
	}, nil
}

func (g *geminiBackend) Name() string {
	return "gemini"
}

// Generate tries each key at most once, rotating on quota errors. When
// every key is rate limited the call fails as RateLimited so the invoker
// backs off before the next round.
func (g *geminiBackend) Generate(ctx context.Context, req Request) (Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Response{}, newError(KindTransient, "wait for rate limiter: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key, idx := g.key()

		clientCfg := &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		}
		if g.baseURL != "" {
			clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
		}

		client, err := genai.NewClient(ctx, clientCfg)
		if err != nil {
			return Response{}, newError(KindFatal, "create client: %w", err)
		}

		result, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
		if err != nil {
			kind := classifyGemini(err)
			if kind == KindRateLimited {
				g.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return Response{}, &Error{Kind: kind, Err: fmt.Errorf("generate content: %w", err)}
		}

		resp := Response{Model: req.Model}
		if result != nil && result.UsageMetadata != nil {
			resp.Usage = Usage{
				PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
				CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			}
		}
		if result != nil && result.ModelVersion != "" {
			resp.Model = result.ModelVersion
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part != nil && part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			resp.Text = text.String()
			return resp, nil
		}

		return resp, newError(KindInvalidResponse, "empty response from Gemini")
	}

	return Response{}, &Error{Kind: KindRateLimited, Err: fmt.Errorf("%w: %v", ErrKeysExhausted, lastErr)}
}

// key returns the key currently in use and its index
func (g *geminiBackend) key() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

// rotateKey advances past idx unless another call already rotated
func (g *geminiBackend) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func classifyGemini(err error) FailureKind {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == "RESOURCE_EXHAUSTED" {
			return KindRateLimited
		}
		return statusKind(apiErr.Code)
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return KindRateLimited
	}
	if strings.Contains(msg, "401") || strings.Contains(msg, "API key not valid") {
		return KindFatal
	}
	return KindTransient
}
