package summary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// items closer than this (1 - edit distance / longer length) are duplicates
const nearDuplicateRatio = 0.9

var (
	reItemMarker = regexp.MustCompile(`^(?:[-*•+]|\d+[.)])\s+`)
	reTermSep    = regexp.MustCompile(`\s*(?::|\s[-–—]\s)\s*`)
)

// splitItems breaks a list section into items. A marker line starts an
// item, following lines continue it, a blank line ends it.
func splitItems(text string) []string {
	var (
		items []string
		cur   []string
	)
	flush := func() {
		if len(cur) > 0 {
			if item := strings.Join(cur, " "); item != "" {
				items = append(items, item)
			}
			cur = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		switch {
		case t == "":
			flush()
		case reItemMarker.MatchString(t):
			flush()
			if rest := strings.TrimSpace(reItemMarker.ReplaceAllString(t, "")); rest != "" {
				cur = []string{rest}
			}
		default:
			cur = append(cur, t)
		}
	}
	flush()

	return items
}

// itemKey lowercases and drops punctuation so restated items compare equal
func itemKey(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
		} else {
			space = true
		}
	}
	return b.String()
}

// termKey compares definitions by the defined term only
func termKey(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	if loc := reTermSep.FindStringIndex(s); loc != nil && loc[0] > 0 && loc[0] <= 80 {
		return itemKey(s[:loc[0]])
	}
	return itemKey(s)
}

// dedupe keeps the first of every group of near-duplicate items
func dedupe(items []string, key func(string) string) (kept []string, dropped int) {
	var keys []string
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		if nearDuplicateOfAny(k, keys) {
			dropped++
			continue
		}
		keys = append(keys, k)
		kept = append(kept, item)
	}
	return kept, dropped
}

func nearDuplicateOfAny(k string, keys []string) bool {
	for _, other := range keys {
		if nearDuplicate(k, other) {
			return true
		}
	}
	return false
}

func nearDuplicate(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longer := max(la, lb)
	// the distance is at least the length difference
	if 1-float64(abs(la-lb))/float64(longer) < nearDuplicateRatio {
		return false
	}
	return 1-float64(levenshtein.ComputeDistance(a, b))/float64(longer) >= nearDuplicateRatio
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
