package pipeline

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/tube2book/internal/chunker"
	"github.com/nguyentantai21042004/tube2book/internal/llm"
	"github.com/nguyentantai21042004/tube2book/internal/summary"
)

// ErrorKind classifies a failed run
type ErrorKind string

const (
	KindInput           ErrorKind = "input"
	KindChunking        ErrorKind = "chunking"
	KindRateLimited     ErrorKind = "rate_limited"
	KindTransient       ErrorKind = "transient"
	KindInvalidResponse ErrorKind = "invalid_response"
	KindFatal           ErrorKind = "fatal"
	KindCancelled       ErrorKind = "cancelled"
)

var (
	ErrInput           = errors.New("input error: transcript is empty after normalization")
	ErrAllChunksFailed = errors.New("no part of the transcript could be summarized")
)

// Config is built once at the process boundary and passed down
type Config struct {
	Chunking chunker.Config
	LLM      llm.Policy
}

// DefaultConfig returns the tuned chunking budget and retry policy
func DefaultConfig() Config {
	return Config{
		Chunking: chunker.DefaultConfig(),
		LLM:      llm.DefaultPolicy(),
	}
}

// Request is one summarization job. Text must already be normalized.
type Request struct {
	Text     string
	Title    string
	Language string
	VideoID  string
	URL      string
}

// Batch is what the orchestrator hands back for a chunked run
type Batch struct {
	Partials []summary.Partial
	Usage    llm.Usage
}

// Failed counts partials that were not summarized
func (b Batch) Failed() int {
	n := 0
	for _, p := range b.Partials {
		if !p.OK {
			n++
		}
	}
	return n
}

// Run records one Summarize call. Elapsed and ChunkCount are set on every
// path, failures included.
type Run struct {
	ID           uuid.UUID             `json:"id"`
	Success      bool                  `json:"success"`
	Summary      *summary.FinalSummary `json:"summary,omitempty"`
	Err          error                 `json:"-"`
	Error        string                `json:"error,omitempty"`
	ErrKind      ErrorKind             `json:"error_kind,omitempty"`
	ChunkCount   int                   `json:"chunk_count"`
	FailedChunks int                   `json:"failed_chunks"`
	Chunked      bool                  `json:"chunked"`
	Partials     []summary.Partial     `json:"partials,omitempty"`
	Notes        []summary.Note        `json:"notes,omitempty"`
	Usage        llm.Usage             `json:"usage"`
	StartedAt    time.Time             `json:"started_at"`
	Elapsed      time.Duration         `json:"elapsed"`
}

// CoverageGap reports whether the summary was built without every chunk
func (r *Run) CoverageGap() bool {
	for _, n := range r.Notes {
		if n.Kind == summary.NoteCoverageGap {
			return true
		}
	}
	return false
}

func kindOf(k llm.FailureKind) ErrorKind {
	switch k {
	case llm.KindRateLimited:
		return KindRateLimited
	case llm.KindInvalidResponse:
		return KindInvalidResponse
	case llm.KindFatal:
		return KindFatal
	default:
		return KindTransient
	}
}
