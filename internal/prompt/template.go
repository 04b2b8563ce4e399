// Package prompt renders summary prompts from a template with named slots
// and appends role framing for chunked runs.
package prompt

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/nguyentantai21042004/tube2book/internal/chunker"
)

var (
	ErrNoTranscriptSlot = errors.New("prompt template has no {{.Transcript}} slot")
	ErrEmptyTemplate    = errors.New("prompt template is empty")
)

// Input fills the template slots
type Input struct {
	Transcript string
	Title      string
	Language   string
}

// Frame says which part of a chunked transcript a prompt covers
type Frame struct {
	Role  chunker.Role
	Index int
	Total int
}

// Template is a parsed prompt template. Safe for concurrent use.
type Template struct {
	tmpl *template.Template
	raw  string
	hash string
}

// New parses text as a prompt template
func New(text string) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTemplate
	}
	if !strings.Contains(text, ".Transcript") {
		return nil, ErrNoTranscriptSlot
	}

	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	// catch references to slots that do not exist
	if err := tmpl.Execute(&bytes.Buffer{}, Input{}); err != nil {
		return nil, fmt.Errorf("check prompt template: %w", err)
	}

	sum := sha256.Sum256([]byte(text))
	return &Template{
		tmpl: tmpl,
		raw:  text,
		hash: hex.EncodeToString(sum[:8]),
	}, nil
}

// Load reads a prompt template from disk
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return New(string(data))
}

// Default returns the built-in book summary template
func Default() *Template {
	t, err := New(bookTemplate)
	if err != nil {
		panic(err) // built-in template is static
	}
	return t
}

// Hash identifies the template text, used in cache keys
func (t *Template) Hash() string {
	return t.hash
}

// Render substitutes in into the template and appends role framing.
// strict adds the reminder used when a previous answer was unusable.
func (t *Template) Render(in Input, f Frame, strict bool) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	if framing := framingFor(f); framing != "" {
		buf.WriteString("\n\n---\n")
		buf.WriteString(framing)
	}
	if strict {
		buf.WriteString("\n\n")
		buf.WriteString(strictReminder)
	}

	return buf.String(), nil
}
