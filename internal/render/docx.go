package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
)

// writeBookDocx writes the summary as a styled Word document
func writeBookDocx(d Document, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), d.title(), true, 18)
	for _, line := range metaLines(d) {
		addStyledRun(doc.AddParagraph(""), line, false, 11)
	}
	doc.AddParagraph("")

	for _, s := range d.Summary.Sections {
		addStyledRun(doc.AddParagraph(""), s.Name, true, headingSize(1))
		addMarkdown(doc, s.Text)
		doc.AddParagraph("")
	}

	return doc.SaveTo(path)
}

// writeTranscriptDocx writes the full transcript with metadata, statistics
// and page headers every 15,000 characters
func writeTranscriptDocx(d Document, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}
	m := d.Summary.Meta
	st := d.Stats

	addStyledRun(doc.AddParagraph(""), "Transcript: "+d.title(), true, 18)
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "VIDEO METADATA", true, headingSize(1))
	if m.VideoID != "" {
		addPlain(doc, "Video ID: "+m.VideoID)
	}
	if d.Duration > 0 {
		addPlain(doc, "Video Duration: "+clock(d.Duration))
	}
	lang := m.Language
	if lang == "" {
		lang = "en"
	}
	addPlain(doc, "Language: "+lang)
	addPlain(doc, "Generated: "+d.generatedAt().Format("2006-01-02T15:04:05"))
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "TRANSCRIPT STATISTICS", true, headingSize(1))
	addPlain(doc, fmt.Sprintf("Word Count: %s words", thousands(st.Words)))
	addPlain(doc, fmt.Sprintf("Character Count: %s characters", thousands(st.Characters)))
	addPlain(doc, fmt.Sprintf("Reading Time: %s (at 200 WPM)", readingTime(st.ReadingMinutes)))
	if st.SpeakingRate > 0 {
		addPlain(doc, fmt.Sprintf("Speaking Rate: %.0f words/min", st.SpeakingRate))
	}
	addPlain(doc, fmt.Sprintf("Paragraphs: %d", st.Paragraphs))
	addPlain(doc, fmt.Sprintf("Sentences: %d", st.Sentences))
	doc.AddParagraph("")
	addPlain(doc, strings.Repeat("─", 50))
	doc.AddParagraph("")

	pp := pages(d.Transcript)
	for i, page := range pp {
		addStyledRun(doc.AddParagraph(""), fmt.Sprintf("Page %d of %d", i+1, len(pp)), true, headingSize(2))
		for _, para := range strings.Split(page, "\n") {
			if para = strings.TrimSpace(para); para != "" {
				addPlain(doc, para)
			}
		}
	}

	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), "TRANSCRIPT SUMMARY", true, headingSize(1))
	addPlain(doc, "Total Words: "+thousands(st.Words))
	addPlain(doc, "Total Characters: "+thousands(st.Characters))
	addPlain(doc, fmt.Sprintf("Estimated Read Time: %s (at 200 WPM)", readingTime(st.ReadingMinutes)))
	if d.Duration > 0 {
		addPlain(doc, "Video Duration: "+clock(d.Duration))
	}
	if st.SpeakingRate > 0 {
		addPlain(doc, fmt.Sprintf("Speaking Pace: %.0f words/min", st.SpeakingRate))
	}
	addPlain(doc, fmt.Sprintf("Pages Generated: %d", len(pp)))

	return doc.SaveTo(path)
}

// addMarkdown converts section markdown into styled paragraphs
func addMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])+1))
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		if strings.HasPrefix(trimmed, "> ") {
			addRichText(doc.AddParagraph(""), strings.TrimPrefix(trimmed, "> "))
			continue
		}
		addRichText(doc.AddParagraph(""), trimmed)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addPlain(doc *docx.RootDoc, text string) {
	addStyledRun(doc.AddParagraph(""), text, false, fontSize)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
