package processor

import (
	"time"

	"github.com/nguyentantai21042004/tube2book/internal/pipeline"
	"github.com/nguyentantai21042004/tube2book/internal/storage"
	"github.com/nguyentantai21042004/tube2book/internal/textnorm"
)

// Options are the knobs main derives from config and flags. Local files
// are archived only when they sit inside InputDir.
type Options struct {
	Model          string
	TemplateHash   string
	Chunking       string
	OutputDir      string
	TranscriptDocx bool
	InputDir       string
	ArchiveDir     string
	CacheTTL       time.Duration
	MaxConcurrent  int
}

// TextRequest summarizes text supplied directly instead of fetched
type TextRequest struct {
	Text     string `json:"text"`
	Title    string `json:"title"`
	Language string `json:"language"`
}

// Outcome is what one job produced. Run is nil only when the transcript
// could not be fetched.
type Outcome struct {
	Ref       string           `json:"ref"`
	VideoID   string           `json:"video_id,omitempty"`
	Title     string           `json:"title,omitempty"`
	Origin    string           `json:"origin,omitempty"`
	Run       *pipeline.Run    `json:"run,omitempty"`
	Cached    bool             `json:"cached"`
	Stats     textnorm.Stats   `json:"stats"`
	Files     []string         `json:"files,omitempty"`
	Published []storage.Object `json:"published,omitempty"`
	Archived  string           `json:"archived,omitempty"`
	Elapsed   time.Duration    `json:"elapsed"`
}

// BatchResult pairs a reference with its outcome
type BatchResult struct {
	Ref     string
	Outcome *Outcome
	Err     error
}
