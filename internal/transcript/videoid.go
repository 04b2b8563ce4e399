package transcript

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reBareID    = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	videoIDURLs = []*regexp.Regexp{
		regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`youtube\.com/shorts/([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`youtube\.com/embed/([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`youtube\.com/live/([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`[?&]v=([0-9A-Za-z_-]{11})`),
	}
)

// ExtractVideoID returns the 11 character id from a YouTube URL, or ref
// itself when it already is an id
func ExtractVideoID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if reBareID.MatchString(ref) {
		return ref, nil
	}
	if strings.Contains(ref, "youtu") {
		for _, re := range videoIDURLs {
			if m := re.FindStringSubmatch(ref); m != nil {
				return m[1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
}
