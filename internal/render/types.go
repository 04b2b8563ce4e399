package render

import (
	"errors"
	"time"

	"github.com/nguyentantai21042004/tube2book/internal/summary"
	"github.com/nguyentantai21042004/tube2book/internal/textnorm"
)

// Format is an output document format
type Format string

const (
	FormatDocx     Format = "docx"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
)

// Kinds used in generated file names
const (
	KindBook       = "book"
	KindTranscript = "transcript"
	KindSummary    = "summary"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrNoSummary     = errors.New("document has no summary")
)

// Document is everything the renderers need. Transcript is optional; when
// empty no transcript document is written.
type Document struct {
	Summary    *summary.FinalSummary
	Transcript string
	Stats      textnorm.Stats
	Duration   time.Duration
}

func (d Document) title() string {
	if d.Summary.Meta.Title != "" {
		return d.Summary.Meta.Title
	}
	if d.Summary.Meta.VideoID != "" {
		return "YouTube Video " + d.Summary.Meta.VideoID
	}
	return "Untitled"
}

func (d Document) generatedAt() time.Time {
	if d.Summary.Meta.GeneratedAt.IsZero() {
		return time.Now()
	}
	return d.Summary.Meta.GeneratedAt
}
