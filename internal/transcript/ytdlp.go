package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/tube2book/internal/logger"
	"github.com/nguyentantai21042004/tube2book/pkg/executor"
)

// ytdlpSource downloads subtitles with the yt-dlp binary
type ytdlpSource struct {
	binary   string
	language string
	tempDir  string
	executor executor.Executor
	logger   logger.Logger
}

// Fetch asks yt-dlp for manual or automatic subtitles in the configured
// language and parses the resulting .vtt file
func (y *ytdlpSource) Fetch(ctx context.Context, ref string) (*Transcript, error) {
	id, err := ExtractVideoID(ref)
	if err != nil {
		return nil, err
	}

	if y.tempDir != "" {
		if err := os.MkdirAll(y.tempDir, 0755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	workDir, err := os.MkdirTemp(y.tempDir, "ytdlp-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", y.language + ".*," + y.language,
		"--sub-format", "vtt",
		"--no-simulate",
		"--print", "title",
		"-o", "%(id)s.%(ext)s",
		WatchURL(id),
	}

	y.logger.Info(ctx, "Downloading subtitles with %s: %s", y.binary, id)
	out, err := y.executor.ExecuteInDir(ctx, workDir, y.binary, args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(workDir, "*.vtt"))
	if err != nil {
		return nil, fmt.Errorf("list subtitles: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: yt-dlp found no %q subtitles for %s", ErrNotAvailable, y.language, id)
	}
	// manual tracks (id.en.vtt) sort before regional variants (id.en-GB.vtt)
	sort.Strings(files)

	data, err := os.ReadFile(files[0])
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	segs, err := ParseVTT(string(data))
	if err != nil {
		return nil, err
	}

	_, _, lang := describeFile(files[0], y.language)
	title := lastLine(out)
	if title == "" {
		title = "YouTube Video " + id
	}

	text, dur := fromSegments(segs)
	return &Transcript{
		VideoID:  id,
		Title:    title,
		URL:      WatchURL(id),
		Language: lang,
		Text:     text,
		Segments: segs,
		Duration: dur,
		Origin:   OriginYtDlp,
	}, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
