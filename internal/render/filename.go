package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const maxTitleRunes = 50

// SafeTitle keeps letters, digits, spaces, dashes and underscores and cuts
// the result to 50 runes
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	runes := []rune(strings.TrimSpace(b.String()))
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	safe := strings.TrimSpace(string(runes))
	if safe == "" {
		return "untitled"
	}
	return safe
}

// FileName builds "<safe title>_<video id>_<kind>_<YYYYMMDD_HHMMSS>.<ext>"
func FileName(title, videoID, kind string, at time.Time, ext string) string {
	if videoID == "" {
		videoID = "unknown"
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s", SafeTitle(title), videoID, kind, at.Format("20060102_150405"), ext)
}
