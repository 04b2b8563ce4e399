package summary

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Placeholder fills a template section no chunk produced
const Placeholder = "_Not available: no summarized part of the transcript produced this section._"

var (
	// a chapter heading: markdown heading or bold line starting "Chapter <n>"
	reChapter = regexp.MustCompile(`(?im)^([ \t]*(?:#{1,6}[ \t]+(?:\*\*)?|\*\*)[ \t]*)chapter[ \t]+(\d+|[ivxlcdm]+)\b`)
	reRoman   = regexp.MustCompile(`^m{0,3}(?:cm|cd|d?c{0,3})(?:xc|xl|l?x{0,3})(?:ix|iv|v?i{0,3})$`)
)

type parsedPartial struct {
	Partial
	sections map[string]string
}

// Merge assembles ordered partials into one document following the
// template. Leading singletons come from the earliest successful chunk
// that has them, trailing singletons from the latest; sequential sections
// are joined in chunk order with chapters renumbered; list sections are
// joined and deduplicated. Failed chunks leave a coverage gap note and a
// marker in the chapter sequence.
func Merge(partials []Partial, meta Metadata) *FinalSummary {
	ordered := make([]Partial, len(partials))
	copy(ordered, partials)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	total := len(ordered)
	var (
		notes []Note
		ok    []parsedPartial
		all   []parsedPartial
	)
	for _, p := range ordered {
		pp := parsedPartial{Partial: p, sections: make(map[string]string)}
		if p.OK {
			for _, s := range Parse(p.Text) {
				pp.sections[s.Name] = s.Text
			}
			ok = append(ok, pp)
		} else {
			notes = append(notes, Note{
				Kind:    NoteCoverageGap,
				Chunk:   p.Index,
				Message: gapMessage(p, total),
			})
		}
		all = append(all, pp)
	}

	out := &FinalSummary{Meta: meta}
	out.Meta.ChunkCount = total
	out.Meta.FailedChunks = total - len(ok)

	for i := range registry {
		def := &registry[i]

		var text string
		switch def.kind {
		case kindLeading:
			text, notes = pickSingleton(def, ok, false, notes)
		case kindTrailing:
			text, notes = pickSingleton(def, ok, true, notes)
		case kindSequential:
			text = joinSequential(def, all, total)
		case kindList:
			var dropped int
			text, dropped = mergeList(def, ok)
			if dropped > 0 {
				notes = append(notes, Note{
					Kind:    NoteDuplicateItems,
					Section: def.name,
					Chunk:   -1,
					Message: fmt.Sprintf("%d near-duplicate item(s) removed", dropped),
				})
			}
		}

		if strings.TrimSpace(text) == "" {
			text = Placeholder
			notes = append(notes, Note{
				Kind:    NoteMissingSection,
				Section: def.name,
				Chunk:   -1,
				Message: "no chunk produced this section",
			})
		}
		out.Sections = append(out.Sections, Section{Name: def.name, Text: text})
	}

	out.Notes = notes
	return out
}

func pickSingleton(def *sectionDef, ok []parsedPartial, fromEnd bool, notes []Note) (string, []Note) {
	var holders []parsedPartial
	for _, p := range ok {
		if strings.TrimSpace(p.sections[def.name]) != "" {
			holders = append(holders, p)
		}
	}
	if len(holders) == 0 {
		return "", notes
	}

	keep := 0
	if fromEnd {
		keep = len(holders) - 1
	}
	for i, p := range holders {
		if i == keep {
			continue
		}
		notes = append(notes, Note{
			Kind:    NoteDuplicateDiscarded,
			Section: def.name,
			Chunk:   p.Index,
			Message: fmt.Sprintf("%s from part %d discarded in favour of part %d", def.name, p.Index+1, holders[keep].Index+1),
		})
	}
	return holders[keep].sections[def.name], notes
}

func joinSequential(def *sectionDef, all []parsedPartial, total int) string {
	var parts []string
	for _, p := range all {
		if !p.OK {
			if def.name == ChapterByChapter {
				parts = append(parts, gapMarker(p.Partial, total))
			}
			continue
		}
		if text := strings.TrimSpace(p.sections[def.name]); text != "" {
			parts = append(parts, text)
		}
	}

	joined := strings.Join(parts, "\n\n")
	if def.name == ChapterByChapter {
		joined = renumberChapters(joined)
	}
	return joined
}

func mergeList(def *sectionDef, ok []parsedPartial) (string, int) {
	var items []string
	for _, p := range ok {
		items = append(items, splitItems(p.sections[def.name])...)
	}

	key := itemKey
	if def.name == KeyConcepts {
		key = termKey
	}
	kept, dropped := dedupe(items, key)

	lines := make([]string, len(kept))
	for i, item := range kept {
		if def.numbered {
			lines[i] = strconv.Itoa(i+1) + ". " + item
		} else {
			lines[i] = "- " + item
		}
	}
	return strings.Join(lines, "\n"), dropped
}

// renumberChapters rewrites "Chapter N" headings to run 1, 2, 3... in order
func renumberChapters(text string) string {
	n := 0
	return reChapter.ReplaceAllStringFunc(text, func(match string) string {
		m := reChapter.FindStringSubmatch(match)
		if !isChapterNumber(m[2]) {
			return match
		}
		n++
		return m[1] + "Chapter " + strconv.Itoa(n)
	})
}

func gapMessage(p Partial, total int) string {
	kind := p.Kind
	if kind == "" {
		kind = "failed"
	}
	msg := fmt.Sprintf("part %d of %d was not summarized (%s)", p.Index+1, total, kind)
	if p.Message != "" {
		msg += ": " + p.Message
	}
	return msg
}

// isChapterNumber accepts digits or a well-formed roman numeral
func isChapterNumber(s string) bool {
	if s[0] >= '0' && s[0] <= '9' {
		return true
	}
	return reRoman.MatchString(strings.ToLower(s))
}

func gapMarker(p Partial, total int) string {
	return fmt.Sprintf("> **Coverage gap:** part %d of %d of the transcript could not be summarized.", p.Index+1, total)
}
