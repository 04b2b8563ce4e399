package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reCueTime = regexp.MustCompile(`^((?:\d+:)?\d{2}:\d{2}[,.]\d{3})\s+-->\s+((?:\d+:)?\d{2}:\d{2}[,.]\d{3})`)
	reCueTag  = regexp.MustCompile(`<[^>]*>`)
)

// ParseSRT reads SubRip cues. Sequence numbers and timing lines are
// dropped; the text of each cue becomes one Segment.
func ParseSRT(content string) ([]Segment, error) {
	return parseCues(content)
}

// ParseVTT reads WebVTT cues. Inline timing and styling tags are removed
// and lines repeated by rolling auto-captions are kept once.
func ParseVTT(content string) ([]Segment, error) {
	if !strings.HasPrefix(strings.TrimPrefix(strings.TrimSpace(content), "\ufeff"), "WEBVTT") {
		return nil, fmt.Errorf("%w: missing WEBVTT header", ErrNotAvailable)
	}
	return parseCues(content)
}

func parseCues(content string) ([]Segment, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var (
		segs     []Segment
		cur      *Segment
		text     []string
		lastLine string
	)
	flush := func() {
		if cur != nil && len(text) > 0 {
			cur.Text = strings.Join(text, " ")
			segs = append(segs, *cur)
		}
		cur, text = nil, nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := reCueTime.FindStringSubmatch(trimmed); m != nil {
			flush()
			start, err := parseClock(m[1])
			if err != nil {
				return nil, err
			}
			end, err := parseClock(m[2])
			if err != nil {
				return nil, err
			}
			cur = &Segment{Start: start, Duration: end - start}
			continue
		}

		switch {
		case trimmed == "":
			flush()
		case cur == nil:
			// WEBVTT header, NOTE blocks, cue ids and SRT indexes
		default:
			t := strings.TrimSpace(reCueTag.ReplaceAllString(trimmed, ""))
			if t == "" || t == lastLine {
				continue
			}
			lastLine = t
			text = append(text, t)
		}
	}
	flush()

	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: no caption cues found", ErrNotAvailable)
	}
	return segs, nil
}

// parseClock reads HH:MM:SS,mmm or MM:SS.mmm
func parseClock(s string) (time.Duration, error) {
	s = strings.Replace(s, ",", ".", 1)
	parts := strings.Split(s, ":")

	var total time.Duration
	for i, p := range parts {
		unit := time.Duration(1)
		switch len(parts) - 1 - i {
		case 0:
			sec, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return 0, fmt.Errorf("parse cue time %q: %w", s, err)
			}
			total += time.Duration(sec * float64(time.Second))
			continue
		case 1:
			unit = time.Minute
		default:
			unit = time.Hour
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("parse cue time %q: %w", s, err)
		}
		total += time.Duration(n) * unit
	}
	return total.Round(time.Millisecond), nil
}
