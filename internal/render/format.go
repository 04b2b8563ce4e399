package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const transcriptPageRunes = 15000

// thousands formats n with comma separators
func thousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// clock formats d as H:MM:SS, or M:SS under an hour
func clock(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func readingTime(minutes float64) string {
	if minutes < 1 {
		return "under a minute"
	}
	m := int(minutes)
	s := int((minutes - float64(m)) * 60)
	if s == 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d min %d sec", m, s)
}

// metaLines is the header block shared by the book documents
func metaLines(doc Document) []string {
	m := doc.Summary.Meta
	lines := []string{}
	if m.VideoID != "" {
		lines = append(lines, "Video ID: "+m.VideoID)
	}
	if m.URL != "" {
		lines = append(lines, "URL: "+m.URL)
	}
	lines = append(lines,
		"Generated: "+doc.generatedAt().Format(time.RFC3339),
		fmt.Sprintf("Transcript Length: %s characters", thousands(m.Characters)),
	)
	if m.Model != "" {
		lines = append(lines, "Model: "+m.Model)
	}
	if m.Chunked {
		lines = append(lines, fmt.Sprintf("Processed in %d parts", m.ChunkCount))
	}
	if doc.Summary.HasCoverageGap() {
		lines = append(lines, fmt.Sprintf("Note: %d of %d parts could not be summarized; see the coverage gap markers.",
			m.FailedChunks, m.ChunkCount))
	}
	return lines
}

// pages cuts text into pieces of at most transcriptPageRunes runes,
// preferring to break on whitespace
func pages(text string) []string {
	var out []string
	for text != "" {
		if utf8.RuneCountInString(text) <= transcriptPageRunes {
			out = append(out, text)
			break
		}
		cut := runeOffset(text, transcriptPageRunes)
		if ws := strings.LastIndexAny(text[:cut], " \n"); ws > cut/2 {
			cut = ws + 1
		}
		out = append(out, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	return out
}

func runeOffset(s string, n int) int {
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}
