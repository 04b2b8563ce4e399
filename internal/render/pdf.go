package render

import (
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin  = 12.7 // half an inch
	pdfLeading = 5.5
)

// writeBookPDF writes the summary with the core Helvetica font. Text is
// translated to cp1252; runes outside it print as '.'.
func writeBookPDF(d Document, path string) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(d.title(), true)
	pdf.SetCreator("tube2book", true)
	pdf.SetCreationDate(d.generatedAt())
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(d.title()), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range metaLines(d) {
		pdf.MultiCell(0, pdfLeading, tr(line), "", "L", false)
	}
	pdf.Ln(8)

	for _, s := range d.Summary.Sections {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 7, tr(s.Name), "", "L", false)
		pdf.Ln(2)
		writePDFBody(pdf, tr, s.Text)
		pdf.Ln(4)
	}

	return pdf.OutputFileAndClose(path)
}

func writePDFBody(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			pdf.Ln(2)
			continue
		}
		if trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, tr(cleanMarkdownInline(m[2])), "", "L", false)
			continue
		}

		// chapter titles arrive as a bold line of their own
		if strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**") && len(trimmed) > 4 {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, pdfLeading, tr(cleanMarkdownInline(trimmed)), "", "L", false)
			continue
		}

		pdf.SetFont("Helvetica", "", 11)
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			trimmed = "• " + m[1]
		}
		trimmed = strings.TrimPrefix(trimmed, "> ")
		pdf.MultiCell(0, pdfLeading, tr(cleanMarkdownInline(trimmed)), "", "L", false)
	}
}
