package render

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/tube2book/internal/logger"
)

type writeFunc func(doc Document, path string) error

type implRenderer struct {
	formats []Format
	logger  logger.Logger
}

// New creates a Renderer for the given formats. Duplicates are ignored;
// an unknown name is an error.
func New(formats []string, log logger.Logger) (Renderer, error) {
	r := &implRenderer{logger: log}
	seen := make(map[Format]bool)
	for _, name := range formats {
		f := Format(strings.ToLower(strings.TrimSpace(name)))
		switch f {
		case FormatDocx, FormatPDF, FormatMarkdown:
		case "md":
			f = FormatMarkdown
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
		if !seen[f] {
			seen[f] = true
			r.formats = append(r.formats, f)
		}
	}
	return r, nil
}

func (r *implRenderer) Formats() []Format {
	out := make([]Format, len(r.formats))
	copy(out, r.formats)
	return out
}
