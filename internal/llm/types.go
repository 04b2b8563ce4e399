package llm

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies a failed backend call
type FailureKind string

const (
	KindRateLimited     FailureKind = "rate_limited"
	KindTransient       FailureKind = "transient"
	KindInvalidResponse FailureKind = "invalid_response"
	KindFatal           FailureKind = "fatal"
)

var (
	ErrEmptyResponse  = errors.New("empty response from backend")
	ErrKeysExhausted  = errors.New("all API keys exhausted")
	ErrNoAPIKey       = errors.New("no API key configured")
	ErrUnknownBackend = errors.New("unknown llm provider")
)

// Error is a backend failure tagged with its retry class
type Error struct {
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind FailureKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Classify maps any error from a backend onto a FailureKind. Unclassified
// errors, timeouts included, are transient.
func Classify(err error) FailureKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindTransient
}

// Request is one generation call
type Request struct {
	Prompt      string
	System      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Usage counts tokens reported by the backend
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Total returns prompt plus completion tokens
func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// Add accumulates another call's usage
func (u *Usage) Add(o Usage) {
	u.PromptTokens += o.PromptTokens
	u.CompletionTokens += o.CompletionTokens
}

// Response is the backend's answer
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Result is the outcome of an invocation after retries. It never carries a
// panic or an unclassified error: either OK with Text, or Kind says why not.
type Result struct {
	Text     string
	OK       bool
	Kind     FailureKind
	Err      error
	Attempts int
	Usage    Usage
	Elapsed  time.Duration
}

// Policy holds the retry and generation settings for an Invoker
type Policy struct {
	Model          string
	MaxTokens      int
	Temperature    float64
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration
}

// DefaultPolicy mirrors the defaults in config.yaml
func DefaultPolicy() Policy {
	return Policy{
		Model:          "llama-3.3-70b-versatile",
		MaxTokens:      8000,
		Temperature:    0.5,
		MaxAttempts:    3,
		BaseDelay:      2 * time.Second,
		MaxDelay:       30 * time.Second,
		RequestTimeout: 120 * time.Second,
	}
}
