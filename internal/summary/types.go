package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/tube2book/internal/chunker"
)

// Partial is the model output for one chunk. Failed chunks keep their
// slot with OK false and a placeholder Text.
type Partial struct {
	Index   int          `json:"index"`
	Role    chunker.Role `json:"role"`
	Text    string       `json:"text"`
	OK      bool         `json:"ok"`
	Kind    string       `json:"kind,omitempty"`
	Message string       `json:"message,omitempty"`
}

// NoteKind tags informational run notes
type NoteKind string

const (
	NoteCoverageGap        NoteKind = "coverage_gap"
	NoteDuplicateDiscarded NoteKind = "duplicate_discarded"
	NoteDuplicateItems     NoteKind = "duplicate_items"
	NoteMissingSection     NoteKind = "missing_section"
)

// Note records something a reader of the summary should know about how it
// was assembled. Chunk is -1 when the note is not about a single chunk.
type Note struct {
	Kind    NoteKind `json:"kind" yaml:"kind"`
	Section string   `json:"section,omitempty" yaml:"section,omitempty"`
	Chunk   int      `json:"chunk" yaml:"chunk"`
	Message string   `json:"message" yaml:"message"`
}

// Metadata travels with the summary to the renderers
type Metadata struct {
	VideoID          string        `json:"video_id,omitempty" yaml:"video_id,omitempty"`
	Title            string        `json:"title,omitempty" yaml:"title,omitempty"`
	URL              string        `json:"url,omitempty" yaml:"url,omitempty"`
	Language         string        `json:"language,omitempty" yaml:"language,omitempty"`
	Model            string        `json:"model" yaml:"model"`
	ChunkCount       int           `json:"chunk_count" yaml:"chunk_count"`
	FailedChunks     int           `json:"failed_chunks" yaml:"failed_chunks"`
	Chunked          bool          `json:"chunked" yaml:"chunked"`
	Characters       int           `json:"characters" yaml:"characters"`
	PromptTokens     int           `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens" yaml:"completion_tokens"`
	EstimatedCostUSD float64       `json:"estimated_cost_usd" yaml:"estimated_cost_usd"`
	GeneratedAt      time.Time     `json:"generated_at" yaml:"generated_at"`
	Elapsed          time.Duration `json:"elapsed" yaml:"elapsed"`
}

// FinalSummary is the assembled document. It is not modified after Merge
// returns it.
type FinalSummary struct {
	Sections []Section `json:"sections"`
	Meta     Metadata  `json:"meta"`
	Notes    []Note    `json:"notes,omitempty"`
}

// Section returns the named section
func (f *FinalSummary) Section(name string) (Section, bool) {
	for _, s := range f.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// HasCoverageGap reports whether any chunk failed
func (f *FinalSummary) HasCoverageGap() bool {
	for _, n := range f.Notes {
		if n.Kind == NoteCoverageGap {
			return true
		}
	}
	return false
}

// Markdown renders the sections under "## " headings
func (f *FinalSummary) Markdown() string {
	var b strings.Builder
	for i, s := range f.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## %s\n\n%s", s.Name, s.Text)
	}
	b.WriteString("\n")
	return b.String()
}
