package summary

import (
	"errors"
	"strings"
)

var ErrNoSections = errors.New("response has no recognised summary sections")

// Section is one named block of the summary
type Section struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// Parse splits a model response into template sections. Headings may be
// markdown (## Title), bold (**Title**) or upper case (TITLE:). Text before
// the first recognised heading is dropped; a section repeated within one
// response is joined.
func Parse(text string) []Section {
	var (
		sections []Section
		index    = make(map[string]int)
		current  = -1
		buf      []string
	)

	flush := func() {
		if current < 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		switch prev := sections[current].Text; {
		case prev == "":
			sections[current].Text = body
		case body != "":
			sections[current].Text = prev + "\n\n" + body
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if title, ok := headingTitle(trimmed); ok {
			if def := lookupSection(title); def != nil {
				flush()
				if i, seen := index[def.name]; seen {
					current = i
				} else {
					sections = append(sections, Section{Name: def.name})
					current = len(sections) - 1
					index[def.name] = current
				}
				continue
			}
		}
		if current >= 0 {
			buf = append(buf, strings.TrimRight(line, " \t"))
		}
	}
	flush()

	return sections
}

// Validate reports whether a response contains at least one template
// section. Used as the invoker's response check.
func Validate(text string) error {
	if len(Parse(text)) == 0 {
		return ErrNoSections
	}
	return nil
}
