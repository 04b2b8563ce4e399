package summary

import (
	"strings"
	"testing"

	"github.com/nguyentantai21042004/tube2book/internal/chunker"
)

func threeParts() []Partial {
	return []Partial{
		{Index: 2, Role: chunker.RoleLast, Text: lastPart, OK: true},
		{Index: 0, Role: chunker.RoleFirst, Text: firstPart, OK: true},
		{Index: 1, Role: chunker.RoleMiddle, Text: middlePart, OK: true},
	}
}

func sectionText(t *testing.T, f *FinalSummary, name string) string {
	t.Helper()
	s, ok := f.Section(name)
	if !ok {
		t.Fatalf("section %q missing", name)
	}
	return s.Text
}

func countNotes(f *FinalSummary, kind NoteKind) int {
	n := 0
	for _, note := range f.Notes {
		if note.Kind == kind {
			n++
		}
	}
	return n
}

func TestMerge(t *testing.T) {
	out := Merge(threeParts(), Metadata{Model: "test-model"})

	if len(out.Sections) != len(registry) {
		t.Fatalf("got %d sections, want %d", len(out.Sections), len(registry))
	}
	for i, name := range SectionNames() {
		if out.Sections[i].Name != name {
			t.Errorf("section %d = %q, want %q", i, out.Sections[i].Name, name)
		}
	}
	if out.Meta.ChunkCount != 3 || out.Meta.FailedChunks != 0 || out.Meta.Model != "test-model" {
		t.Errorf("Meta = %+v", out.Meta)
	}

	tests := []struct {
		section string
		want    string
	}{
		{ExecutiveOverview, "Overview from part one."},
		{Introduction, "Intro one."},
		{ChapterByChapter, "### Chapter 1: Origins\nText A.\n\n### Chapter 2: Growth\nText B.\n\n**Chapter 3: Setbacks**\nText C.\n\n## Chapter 4: Comeback\nText D."},
		{KeyConcepts, "- **Flywheel**: a self-reinforcing loop.\n- Deliberate practice: focused effort on weaknesses."},
		{KeyTakeaways, "1. Consistency beats intensity.\n2. Start small.\n3. Rest is part of the work.\n4. Measure what matters."},
		{MemorableQuotations, `- "Start before you are ready."`},
		{PracticalApplication, "Apply A.\n\nApply C."},
		{CriticalAnalysis, "Critique A."},
		{FurtherReading, "- Atomic Habits by James Clear"},
		{Conclusion, "Final conclusion."},
		{TLDR, "- Be consistent."},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			if got := sectionText(t, out, tt.section); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.section, got, tt.want)
			}
		})
	}

	if got := countNotes(out, NoteDuplicateDiscarded); got != 2 {
		t.Errorf("duplicate_discarded notes = %d, want 2", got)
	}
	for _, n := range out.Notes {
		switch {
		case n.Kind == NoteDuplicateDiscarded && n.Section == ExecutiveOverview && n.Chunk != 1:
			t.Errorf("overview discard note chunk = %d, want 1", n.Chunk)
		case n.Kind == NoteDuplicateDiscarded && n.Section == Conclusion && n.Chunk != 0:
			t.Errorf("conclusion discard note chunk = %d, want 0", n.Chunk)
		}
	}
	if got := countNotes(out, NoteDuplicateItems); got != 3 {
		t.Errorf("duplicate_items notes = %d, want 3", got)
	}
	if out.HasCoverageGap() || countNotes(out, NoteMissingSection) != 0 {
		t.Errorf("unexpected notes: %+v", out.Notes)
	}
}

func TestMergeSingletonsAppearOnce(t *testing.T) {
	out := Merge(threeParts(), Metadata{})
	md := out.Markdown()

	for _, heading := range []string{"## Executive Overview\n", "## Conclusion\n", "## TL;DR\n", "## Introduction\n"} {
		if c := strings.Count(md, heading); c != 1 {
			t.Errorf("%q appears %d times", heading, c)
		}
	}
	if strings.Contains(md, "Premature conclusion") || strings.Contains(md, "restated in part two") {
		t.Error("discarded singleton leaked into the document")
	}
	if strings.Contains(md, "Here is your summary") {
		t.Error("preamble leaked into the document")
	}
}

func TestMergeCoverageGap(t *testing.T) {
	parts := threeParts()
	parts[2] = Partial{Index: 1, Role: chunker.RoleMiddle, Text: "[part 2 of 3 could not be summarized]", Kind: "rate_limited", Message: "quota"}

	out := Merge(parts, Metadata{})

	if out.Meta.FailedChunks != 1 || !out.HasCoverageGap() {
		t.Fatalf("FailedChunks = %d, HasCoverageGap = %v", out.Meta.FailedChunks, out.HasCoverageGap())
	}
	var gap Note
	for _, n := range out.Notes {
		if n.Kind == NoteCoverageGap {
			gap = n
		}
	}
	if gap.Chunk != 1 || !strings.Contains(gap.Message, "part 2 of 3") || !strings.Contains(gap.Message, "rate_limited") {
		t.Errorf("gap note = %+v", gap)
	}

	want := "### Chapter 1: Origins\nText A.\n\n### Chapter 2: Growth\nText B.\n\n" +
		"> **Coverage gap:** part 2 of 3 of the transcript could not be summarized.\n\n" +
		"## Chapter 3: Comeback\nText D."
	if got := sectionText(t, out, ChapterByChapter); got != want {
		t.Errorf("chapters = %q, want %q", got, want)
	}
	if got := sectionText(t, out, KeyTakeaways); got != "1. Consistency beats intensity.\n2. Start small.\n3. Rest is part of the work\n4. Measure what matters." {
		t.Errorf("takeaways = %q", got)
	}
	if got := sectionText(t, out, ExecutiveOverview); got != "Overview from part one." {
		t.Errorf("overview = %q", got)
	}
	if strings.Contains(out.Markdown(), "could not be summarized]") {
		t.Error("failed partial text leaked into the document")
	}
}

func TestMergeMissingSection(t *testing.T) {
	parts := []Partial{
		{Index: 0, Role: chunker.RoleFirst, Text: "## Executive Overview\nA.\n## Key Takeaways\n- one", OK: true},
		{Index: 1, Role: chunker.RoleLast, Text: "## Conclusion\nDone.", OK: true},
	}

	out := Merge(parts, Metadata{})

	if got := sectionText(t, out, TLDR); got != Placeholder {
		t.Errorf("TL;DR = %q, want placeholder", got)
	}
	missing := 0
	for _, n := range out.Notes {
		if n.Kind == NoteMissingSection {
			missing++
			if n.Chunk != -1 {
				t.Errorf("missing section note chunk = %d, want -1", n.Chunk)
			}
		}
	}
	// Introduction, chapters, concepts, quotations, applications, analysis, reading, TL;DR
	if missing != 8 {
		t.Errorf("missing_section notes = %d, want 8", missing)
	}
}

func TestMergeSingleChunk(t *testing.T) {
	text := "## Executive Overview\nAll of it.\n## Chapter-by-Chapter Summary\n### Chapter 3: Only\nBody.\n## Conclusion\nEnd.\n## TL;DR\n- short"
	out := Merge([]Partial{{Index: 0, Role: chunker.RoleOnly, Text: text, OK: true}}, Metadata{Chunked: false})

	if out.Meta.ChunkCount != 1 || out.Meta.FailedChunks != 0 {
		t.Errorf("Meta = %+v", out.Meta)
	}
	if got := sectionText(t, out, ChapterByChapter); got != "### Chapter 1: Only\nBody." {
		t.Errorf("chapters = %q", got)
	}
	if got := sectionText(t, out, TLDR); got != "- short" {
		t.Errorf("TL;DR = %q", got)
	}
	if countNotes(out, NoteDuplicateDiscarded) != 0 {
		t.Errorf("unexpected discard notes: %+v", out.Notes)
	}
}

func TestMergeAllFailed(t *testing.T) {
	out := Merge([]Partial{
		{Index: 0, Role: chunker.RoleFirst, Kind: "fatal"},
		{Index: 1, Role: chunker.RoleLast, Kind: "fatal"},
	}, Metadata{})

	if out.Meta.FailedChunks != 2 || countNotes(out, NoteCoverageGap) != 2 {
		t.Errorf("Meta = %+v notes = %+v", out.Meta, out.Notes)
	}
	if got := sectionText(t, out, Conclusion); got != Placeholder {
		t.Errorf("Conclusion = %q", got)
	}
}

func TestRenumberChapters(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "headings and bold lines",
			in:   "### Chapter 4: A\nsee chapter 9 later\n**Chapter IV: B**\n## **Chapter 12** C",
			want: "### Chapter 1: A\nsee chapter 9 later\n**Chapter 2: B**\n## **Chapter 3** C",
		},
		{
			name: "prose lines are left alone",
			in:   "### Chapter 5: A\nChapter 2 of the book says more.\nA chapter 7 mention",
			want: "### Chapter 1: A\nChapter 2 of the book says more.\nA chapter 7 mention",
		},
		{
			name: "words that look like numerals",
			in:   "### Chapter civil rights\n### Chapter mild\n### Chapter xii: Z",
			want: "### Chapter civil rights\n### Chapter mild\n### Chapter 1: Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renumberChapters(tt.in); got != tt.want {
				t.Errorf("renumberChapters() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	f := &FinalSummary{Sections: []Section{{Name: "A", Text: "x"}, {Name: "B", Text: "y"}}}
	if got := f.Markdown(); got != "## A\n\nx\n\n## B\n\ny\n" {
		t.Errorf("Markdown() = %q", got)
	}
}
