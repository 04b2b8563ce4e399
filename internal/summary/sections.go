// Package summary parses partial summaries into template sections and
// merges them into one book-style document.
package summary

import (
	"regexp"
	"strings"
)

// Canonical section names, in template order
const (
	ExecutiveOverview    = "Executive Overview"
	Introduction         = "Introduction"
	ChapterByChapter     = "Chapter-by-Chapter Summary"
	KeyConcepts          = "Key Concepts and Definitions"
	KeyTakeaways         = "Key Takeaways"
	MemorableQuotations  = "Memorable Quotations"
	PracticalApplication = "Practical Applications"
	CriticalAnalysis     = "Critical Analysis"
	FurtherReading       = "Further Reading"
	Conclusion           = "Conclusion"
	TLDR                 = "TL;DR"
)

type sectionKind int

const (
	// kept from the earliest chunk that has it
	kindLeading sectionKind = iota
	// kept from the latest chunk that has it
	kindTrailing
	// concatenated in chunk order
	kindSequential
	// concatenated then deduplicated item by item
	kindList
)

type sectionDef struct {
	name     string
	kind     sectionKind
	numbered bool
	aliases  []string
}

var registry = []sectionDef{
	{name: ExecutiveOverview, kind: kindLeading, aliases: []string{"executive summary"}},
	{name: Introduction, kind: kindLeading, aliases: []string{"intro"}},
	{name: ChapterByChapter, kind: kindSequential, aliases: []string{"chapter by chapter", "chapter summaries"}},
	{name: KeyConcepts, kind: kindList, aliases: []string{"key concepts", "key concepts definitions", "key terms"}},
	{name: KeyTakeaways, kind: kindList, numbered: true, aliases: []string{"takeaways", "key insights"}},
	{name: MemorableQuotations, kind: kindList, aliases: []string{"quotations", "quotes", "memorable quotes", "key quotes", "notable quotes"}},
	{name: PracticalApplication, kind: kindSequential, aliases: []string{"practical application"}},
	{name: CriticalAnalysis, kind: kindSequential},
	{name: FurtherReading, kind: kindList, aliases: []string{"further reading sources", "further reading and sources", "further reading resources"}},
	{name: Conclusion, kind: kindTrailing, aliases: []string{"conclusions", "final thoughts"}},
	{name: TLDR, kind: kindTrailing, aliases: []string{"tldr", "quick bullet summary", "quick bullet summary (tl;dr)", "quick summary", "bullet summary"}},
}

var (
	aliasIndex = buildAliasIndex()

	reMarkdownHeading = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*$`)
	reBoldHeading     = regexp.MustCompile(`^(?:[-*]\s+|\d+[.)]\s+)?\*\*([^*]+?):?\*\*:?$`)
	reUpperHeading    = regexp.MustCompile(`^(?:[-*]\s+|\d+[.)]\s+)?([A-Z][A-Z0-9 &/;:,'()\-]{2,}?):?$`)
	reLeadingNumber   = regexp.MustCompile(`^(?:\d+|[ivxIVX]+)[.)]\s+`)
	reTrailingParen   = regexp.MustCompile(`\s*\([^)]*\)$`)
	reNonWord         = regexp.MustCompile(`[^a-z0-9]+`)
)

func buildAliasIndex() map[string]*sectionDef {
	idx := make(map[string]*sectionDef)
	for i := range registry {
		def := &registry[i]
		idx[titleKey(def.name)] = def
		for _, a := range def.aliases {
			idx[titleKey(a)] = def
		}
	}
	return idx
}

// titleKey reduces a heading title to lowercase words
func titleKey(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, "&", " and ")
	s = reNonWord.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// lookupSection resolves a heading title to a template section
func lookupSection(title string) *sectionDef {
	title = strings.TrimSpace(strings.Trim(title, "*_` "))
	title = reLeadingNumber.ReplaceAllString(title, "")
	title = strings.TrimSuffix(title, ":")

	if def, ok := aliasIndex[titleKey(title)]; ok {
		return def
	}
	if stripped := reTrailingParen.ReplaceAllString(title, ""); stripped != title {
		if def, ok := aliasIndex[titleKey(stripped)]; ok {
			return def
		}
	}
	return nil
}

// headingTitle returns the title of a heading line, if the line is one
func headingTitle(line string) (string, bool) {
	if m := reMarkdownHeading.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := reBoldHeading.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := reUpperHeading.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// SectionNames lists the template sections in order
func SectionNames() []string {
	names := make([]string, len(registry))
	for i, def := range registry {
		names[i] = def.name
	}
	return names
}
