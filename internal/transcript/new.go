package transcript

import (
	"context"
	"errors"
	"os"

	"github.com/nguyentantai21042004/tube2book/internal/logger"
	"github.com/nguyentantai21042004/tube2book/pkg/executor"
)

type implRouter struct {
	file     Source
	youtube  Source
	ytdlp    Source
	fallback bool
	logger   logger.Logger
}

// New creates a Source that reads local transcript files directly and
// fetches everything else from YouTube, falling back to yt-dlp when
// enabled and no captions were found
func New(cfg Config, exec executor.Executor, log logger.Logger) Source {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.YtDlpBinary == "" {
		cfg.YtDlpBinary = "yt-dlp"
	}

	r := &implRouter{
		file:     &fileSource{language: cfg.Language},
		youtube:  newYouTube(cfg, log),
		fallback: cfg.YtDlpFallback && exec != nil,
		logger:   log,
	}
	if r.fallback {
		r.ytdlp = &ytdlpSource{
			binary:   cfg.YtDlpBinary,
			language: cfg.Language,
			tempDir:  cfg.TempDir,
			executor: exec,
			logger:   log,
		}
	}
	return r
}

func (r *implRouter) Fetch(ctx context.Context, ref string) (*Transcript, error) {
	if IsTranscriptFile(ref) {
		if _, err := os.Stat(ref); err == nil {
			return r.file.Fetch(ctx, ref)
		}
	}

	t, err := r.youtube.Fetch(ctx, ref)
	if err == nil || !r.fallback || errors.Is(err, ErrInvalidRef) {
		return t, err
	}

	r.logger.Warn(ctx, "Caption fetch failed (%v), trying yt-dlp", err)
	return r.ytdlp.Fetch(ctx, ref)
}
