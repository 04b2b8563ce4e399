package render

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/nguyentantai21042004/tube2book/internal/summary"
	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header of the markdown output
type frontMatter struct {
	Title            string         `yaml:"title"`
	VideoID          string         `yaml:"video_id,omitempty"`
	URL              string         `yaml:"url,omitempty"`
	Generated        string         `yaml:"generated"`
	TranscriptLength int            `yaml:"transcript_length"`
	Language         string         `yaml:"language"`
	Model            string         `yaml:"model,omitempty"`
	Chunks           int            `yaml:"chunks"`
	FailedChunks     int            `yaml:"failed_chunks,omitempty"`
	PromptTokens     int            `yaml:"prompt_tokens,omitempty"`
	CompletionTokens int            `yaml:"completion_tokens,omitempty"`
	EstimatedCostUSD float64        `yaml:"estimated_cost_usd,omitempty"`
	Notes            []summary.Note `yaml:"notes,omitempty"`
}

func writeMarkdown(d Document, path string) error {
	m := d.Summary.Meta
	lang := m.Language
	if lang == "" {
		lang = "en"
	}
	fm := frontMatter{
		Title:            d.title(),
		VideoID:          m.VideoID,
		URL:              m.URL,
		Generated:        d.generatedAt().Format(time.RFC3339),
		TranscriptLength: m.Characters,
		Language:         lang,
		Model:            m.Model,
		Chunks:           m.ChunkCount,
		FailedChunks:     m.FailedChunks,
		PromptTokens:     m.PromptTokens,
		CompletionTokens: m.CompletionTokens,
		EstimatedCostUSD: m.EstimatedCostUSD,
		Notes:            d.Summary.Notes,
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s\n\n", d.title())
	buf.WriteString(d.Summary.Markdown())

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
