package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SupportedExtensions lists the local transcript formats
var SupportedExtensions = []string{".srt", ".vtt", ".txt"}

// yt-dlp names files "Title [VIDEOID].en.vtt"
var (
	reFileVideoID = regexp.MustCompile(`\s*\[([0-9A-Za-z_-]{11})\]`)
	reFileLang    = regexp.MustCompile(`\.([a-z]{2,3}(?:-[A-Za-z]{2,4})?)$`)
)

// IsTranscriptFile reports whether path has a supported extension
func IsTranscriptFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

type fileSource struct {
	language string
}

// Fetch reads a local subtitle or plain text file
func (f *fileSource) Fetch(_ context.Context, path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript file: %w", err)
	}
	content := string(data)

	t := &Transcript{Language: f.language, Origin: OriginFile}
	t.Title, t.VideoID, t.Language = describeFile(path, f.language)
	if t.VideoID != "" {
		t.URL = WatchURL(t.VideoID)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		t.Segments, err = ParseSRT(content)
	case ".vtt":
		t.Segments, err = ParseVTT(content)
	case ".txt":
		t.Text = strings.TrimSpace(content)
		if t.Text == "" {
			return nil, fmt.Errorf("%w: %s is empty", ErrNotAvailable, filepath.Base(path))
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidRef, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	t.Text, t.Duration = fromSegments(t.Segments)
	return t, nil
}

// describeFile derives title, video id and language from a file name
func describeFile(path, defaultLang string) (title, videoID, lang string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	lang = defaultLang

	if m := reFileLang.FindStringSubmatch(name); m != nil {
		lang = m[1]
		name = strings.TrimSuffix(name, "."+m[1])
	}
	if m := reFileVideoID.FindStringSubmatch(name); m != nil {
		videoID = m[1]
		name = reFileVideoID.ReplaceAllString(name, "")
	}

	title = strings.TrimSpace(strings.NewReplacer("_", " ").Replace(name))
	if title == "" {
		title = videoID
	}
	return title, videoID, lang
}
