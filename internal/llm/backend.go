package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/tube2book/internal/logger"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// BackendConfig selects and configures a backend
type BackendConfig struct {
	Provider          string
	GroqAPIKey        string
	GeminiAPIKeys     []string
	BaseURL           string
	RequestsPerMinute int
	Timeout           time.Duration
}

// NewBackend creates the backend named by cfg.Provider
func NewBackend(cfg BackendConfig, log logger.Logger) (Backend, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGroq:
		return NewGroq(GroqConfig{
			APIKey:            cfg.GroqAPIKey,
			BaseURL:           cfg.BaseURL,
			RequestsPerMinute: cfg.RequestsPerMinute,
			Timeout:           cfg.Timeout,
		})
	case ProviderGemini:
		return NewGemini(GeminiConfig{
			APIKeys:           cfg.GeminiAPIKeys,
			BaseURL:           cfg.BaseURL,
			RequestsPerMinute: cfg.RequestsPerMinute,
		}, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Provider)
	}
}
