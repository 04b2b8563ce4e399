// Package transcript acquires raw transcript text for a video from YouTube
// captions, yt-dlp subtitle downloads or local subtitle files.
package transcript

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotAvailable = errors.New("no transcript available for this video")
	ErrInvalidRef   = errors.New("not a YouTube URL, video id or transcript file")
)

// Origins recorded on a Transcript
const (
	OriginYouTube = "youtube"
	OriginYtDlp   = "yt-dlp"
	OriginFile    = "file"
)

// Segment is one caption cue. Timing is informational.
type Segment struct {
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
	Text     string        `json:"text"`
}

// End returns when the cue stops showing
func (s Segment) End() time.Duration {
	return s.Start + s.Duration
}

// Transcript is immutable once returned by a Source
type Transcript struct {
	VideoID  string        `json:"video_id,omitempty"`
	Title    string        `json:"title"`
	URL      string        `json:"url,omitempty"`
	Language string        `json:"language"`
	Text     string        `json:"text"`
	Segments []Segment     `json:"segments,omitempty"`
	Duration time.Duration `json:"duration"`
	Origin   string        `json:"origin"`
}

// Config configures the sources behind New
type Config struct {
	Language      string
	BaseURL       string
	HTTPTimeout   time.Duration
	YtDlpBinary   string
	YtDlpFallback bool
	TempDir       string
}

// fromSegments joins cue texts into one transcript body
func fromSegments(segs []Segment) (string, time.Duration) {
	parts := make([]string, 0, len(segs))
	var end time.Duration
	for _, s := range segs {
		parts = append(parts, s.Text)
		if e := s.End(); e > end {
			end = e
		}
	}
	return strings.Join(parts, " "), end
}

// WatchURL returns the canonical watch page for a video id
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
