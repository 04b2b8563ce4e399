// Package textnorm turns raw caption text into plain prose for chunking and prompting.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	// [Music], [Applause], [00:01:02]
	reBracketMarker = regexp.MustCompile(`\[[^\[\]]*\]`)
	// (12:34), (1:02:03)
	reParenTimestamp = regexp.MustCompile(`\(\s*\d{1,2}(?::\d{2}){1,2}\s*\)`)
	reParagraphBreak = regexp.MustCompile(`\n\s*\n`)
)

// Normalize strips timing and sound markers, collapses whitespace inside
// paragraphs to single spaces and keeps paragraph breaks as one blank line.
// It never fails; empty input yields an empty string.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = stripMarkers(text)

	paragraphs := reParagraphBreak.Split(text, -1)
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if collapsed := strings.Join(strings.Fields(p), " "); collapsed != "" {
			kept = append(kept, collapsed)
		}
	}

	return strings.Join(kept, "\n\n")
}

// stripMarkers removes markers until none remain, so nested brackets such
// as "[a [b] c]" disappear completely.
func stripMarkers(text string) string {
	for {
		next := reBracketMarker.ReplaceAllString(text, " ")
		next = reParenTimestamp.ReplaceAllString(next, " ")
		if next == text {
			return next
		}
		text = next
	}
}

// Paragraphs splits normalized text into its paragraphs
func Paragraphs(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, "\n\n")
}
