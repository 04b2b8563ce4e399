package textnorm

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const wordsPerMinute = 200

var reSentenceEnd = regexp.MustCompile(`[.!?]+`)

// Stats describes a transcript the way the transcript document reports it
type Stats struct {
	Words              int     `json:"words" yaml:"words"`
	Characters         int     `json:"characters" yaml:"characters"`
	CharactersNoSpaces int     `json:"characters_no_spaces" yaml:"characters_no_spaces"`
	Sentences          int     `json:"sentences" yaml:"sentences"`
	Paragraphs         int     `json:"paragraphs" yaml:"paragraphs"`
	ReadingMinutes     float64 `json:"reading_minutes" yaml:"reading_minutes"`
	SpeakingRate       float64 `json:"speaking_rate_wpm,omitempty" yaml:"speaking_rate_wpm,omitempty"`
	AvgWordLength      float64 `json:"avg_word_length" yaml:"avg_word_length"`
	AvgSentenceLength  float64 `json:"avg_sentence_length" yaml:"avg_sentence_length"`
}

// ComputeStats counts words, sentences and paragraphs. Speaking rate is only
// reported when the spoken duration is known.
func ComputeStats(text string, duration time.Duration) Stats {
	words := strings.Fields(text)
	st := Stats{
		Words:      len(words),
		Characters: utf8.RuneCountInString(text),
		Paragraphs: len(Paragraphs(strings.TrimSpace(text))),
	}

	letters := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			st.CharactersNoSpaces++
		}
	}
	for _, w := range words {
		letters += utf8.RuneCountInString(w)
	}

	st.Sentences = len(reSentenceEnd.FindAllStringIndex(text, -1))
	if st.Sentences == 0 && st.Words > 0 {
		st.Sentences = 1
	}

	if st.Words > 0 {
		st.ReadingMinutes = float64(st.Words) / wordsPerMinute
		st.AvgWordLength = float64(letters) / float64(st.Words)
		st.AvgSentenceLength = float64(st.Words) / float64(st.Sentences)
	}
	if duration > 0 {
		st.SpeakingRate = float64(st.Words) / duration.Minutes()
	}

	return st
}
