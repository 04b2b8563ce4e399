package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

func (r *implRenderer) Render(ctx context.Context, doc Document, dir string) ([]string, error) {
	if doc.Summary == nil {
		return nil, ErrNoSummary
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	title := doc.title()
	videoID := doc.Summary.Meta.VideoID
	at := doc.generatedAt()

	type job struct {
		name  string
		write writeFunc
	}
	var jobs []job
	for _, f := range r.formats {
		switch f {
		case FormatDocx:
			jobs = append(jobs, job{FileName(title, videoID, KindBook, at, "docx"), writeBookDocx})
			if doc.Transcript != "" {
				jobs = append(jobs, job{FileName(title, videoID, KindTranscript, at, "docx"), writeTranscriptDocx})
			}
		case FormatPDF:
			jobs = append(jobs, job{FileName(title, videoID, KindBook, at, "pdf"), writeBookPDF})
		case FormatMarkdown:
			jobs = append(jobs, job{FileName(title, videoID, KindSummary, at, "md"), writeMarkdown})
		}
	}

	var paths []string
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, j.name)
		if err := j.write(doc, path); err != nil {
			return paths, fmt.Errorf("write %s: %w", j.name, err)
		}
		r.logger.Info(ctx, "Saved %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}
