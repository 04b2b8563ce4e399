package chunker

import "unicode"

// Split returns one "only" chunk when text fits in a window, otherwise
// consecutive windows tagged first, middle... last.
func (s *implSplitter) Split(text string) ([]Chunk, error) {
	if err := s.cfg.validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrEmptyInput
	}

	runes := []rune(text)
	n := len(runes)
	if n <= s.cfg.MaxChars {
		return []Chunk{{Index: 0, Text: text, Role: RoleOnly, Start: 0, End: n}}, nil
	}

	var chunks []Chunk
	start := 0
	for start < n {
		ctxStart := start
		if start > 0 {
			ctxStart = overlapStart(runes, start, s.cfg.Overlap)
		}

		end := n
		if limit := ctxStart + s.cfg.MaxChars; limit < n {
			end = findCut(runes, start+1, limit, s.cfg.LookBack)
		}

		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Text:    string(runes[ctxStart:end]),
			Start:   start,
			End:     end,
			Overlap: start - ctxStart,
		})
		start = end
	}

	assignRoles(chunks)
	return chunks, nil
}

// overlapStart moves the context start forward to the next word so the
// repeated text does not begin mid-word
func overlapStart(runes []rune, start, overlap int) int {
	from := start - overlap
	if from <= 0 {
		return 0
	}
	if unicode.IsSpace(runes[from-1]) {
		return from
	}
	for i := from; i < start-1; i++ {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return from
}

// findCut picks where the next chunk begins. Candidates lie in
// [max(floor, limit-lookBack), limit]; preference is paragraph break, then
// sentence end followed by whitespace, then any whitespace, then limit.
func findCut(runes []rune, floor, limit, lookBack int) int {
	lo := limit - lookBack
	if lo < floor {
		lo = floor
	}

	// paragraph break: cut after "\n\n"
	for cut := limit; cut >= lo; cut-- {
		if cut >= 2 && runes[cut-1] == '\n' && runes[cut-2] == '\n' {
			return cut
		}
	}

	// sentence terminator then whitespace: cut after the whitespace
	for cut := limit; cut >= lo; cut-- {
		if cut >= 2 && unicode.IsSpace(runes[cut-1]) && isTerminator(runes[cut-2]) {
			return cut
		}
	}

	// any whitespace
	for cut := limit; cut >= lo; cut-- {
		if cut >= 1 && unicode.IsSpace(runes[cut-1]) {
			return cut
		}
	}

	return limit
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func assignRoles(chunks []Chunk) {
	if len(chunks) == 1 {
		chunks[0].Role = RoleOnly
		return
	}
	for i := range chunks {
		switch i {
		case 0:
			chunks[i].Role = RoleFirst
		case len(chunks) - 1:
			chunks[i].Role = RoleLast
		default:
			chunks[i].Role = RoleMiddle
		}
	}
}
