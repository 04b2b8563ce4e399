package chunker

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitSingleChunk(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
	}{
		{"short", "Hello world.", 100},
		{"exactly max", strings.Repeat("a", 100), 100},
		{"multibyte at max", strings.Repeat("é", 100), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.text, tt.max, 10)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if len(chunks) != 1 {
				t.Fatalf("Split() returned %d chunks, want 1", len(chunks))
			}
			c := chunks[0]
			if c.Role != RoleOnly {
				t.Errorf("Role = %v, want %v", c.Role, RoleOnly)
			}
			if c.Text != tt.text {
				t.Errorf("Text differs from input")
			}
			if c.Overlap != 0 || c.Start != 0 || c.End != utf8.RuneCountInString(tt.text) {
				t.Errorf("offsets = (%d,%d,%d)", c.Start, c.End, c.Overlap)
			}
		})
	}
}

func TestSplitErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		max     int
		overlap int
		wantErr error
	}{
		{"max equals overlap", "text", 10, 10, ErrDegenerateConfig},
		{"max below overlap", "text", 5, 10, ErrDegenerateConfig},
		{"zero max", "text", 0, 0, ErrDegenerateConfig},
		{"negative overlap", "text", 10, -1, ErrDegenerateConfig},
		{"empty input", "", 10, 2, ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.text, tt.max, tt.overlap)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Split() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrChunking) {
				t.Errorf("Split() error = %v, want it to wrap ErrChunking", err)
			}
		})
	}
}

func TestSplitBoundaryPreference(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantEnds []int
	}{
		{
			name:     "paragraph break",
			text:     strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 40),
			wantEnds: []int{42, 82},
		},
		{
			name:     "sentence beats later whitespace",
			text:     strings.Repeat("x", 35) + ". " + strings.Repeat("y", 10) + " " + strings.Repeat("z", 40),
			wantEnds: []int{37, 82, 88},
		},
		{
			name:     "whitespace",
			text:     strings.Repeat("x", 35) + " " + strings.Repeat("y", 60),
			wantEnds: []int{36, 81, 96},
		},
		{
			name:     "hard cut",
			text:     strings.Repeat("x", 120),
			wantEnds: []int{50, 95, 120},
		},
		{
			name:     "boundary outside look-back is ignored",
			text:     strings.Repeat("a", 10) + "\n\n" + strings.Repeat("b", 80),
			wantEnds: []int{50, 92},
		},
	}

	s := New(Config{MaxChars: 50, Overlap: 5, LookBack: 20})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := s.Split(tt.text)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			var ends []int
			for _, c := range chunks {
				ends = append(ends, c.End)
			}
			if len(ends) != len(tt.wantEnds) {
				t.Fatalf("chunk ends = %v, want %v", ends, tt.wantEnds)
			}
			for i := range ends {
				if ends[i] != tt.wantEnds[i] {
					t.Errorf("chunk ends = %v, want %v", ends, tt.wantEnds)
					break
				}
			}
			assertCoverage(t, tt.text, chunks, 50, 5)
		})
	}
}

func TestSplitCoverage(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcdefgh ijk.lmn!op?qr\nstuvwxyzéü日本 ")

	configs := []Config{
		{MaxChars: 100, Overlap: 10, LookBack: 30},
		{MaxChars: 37, Overlap: 36, LookBack: 50},
		{MaxChars: 250, Overlap: 0, LookBack: 0},
		{MaxChars: 64, Overlap: 16, LookBack: 500},
	}

	for i := 0; i < 50; i++ {
		n := 1 + rng.Intn(3000)
		var b strings.Builder
		for j := 0; j < n; j++ {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		text := b.String()

		for _, cfg := range configs {
			chunks, err := New(cfg).Split(text)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			assertCoverage(t, text, chunks, cfg.MaxChars, cfg.Overlap)
		}
	}
}

func TestSplitSixtyThousand(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet. ", 2143)[:60000]

	chunks, err := Split(text, 25000, 500)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("Split() returned %d chunks, want 3", len(chunks))
	}

	wantRoles := []Role{RoleFirst, RoleMiddle, RoleLast}
	for i, c := range chunks {
		if c.Role != wantRoles[i] {
			t.Errorf("chunk %d role = %v, want %v", i, c.Role, wantRoles[i])
		}
		if c.Index != i {
			t.Errorf("chunk %d index = %d", i, c.Index)
		}
	}

	// cuts land after sentence terminators
	for _, c := range chunks[:2] {
		if !strings.HasSuffix(c.Text, "amet. ") {
			t.Errorf("chunk %d ends with %q, want a sentence boundary", c.Index, c.Text[len(c.Text)-10:])
		}
	}
	if chunks[1].Overlap == 0 || chunks[1].Overlap > 500 {
		t.Errorf("middle chunk overlap = %d, want 1..500", chunks[1].Overlap)
	}
	assertCoverage(t, text, chunks, 25000, 500)
}

func TestNeedsChunking(t *testing.T) {
	if NeedsChunking("abc", 3) {
		t.Error("NeedsChunking() = true for text at the limit")
	}
	if !NeedsChunking("日本語x", 3) {
		t.Error("NeedsChunking() = false for text over the limit")
	}
}

func assertCoverage(t *testing.T, text string, chunks []Chunk, max, overlap int) {
	t.Helper()

	var rebuilt strings.Builder
	next := 0
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.Start != next {
			t.Errorf("chunk %d starts at %d, want %d", i, c.Start, next)
		}
		fresh := c.Fresh()
		if fresh == "" {
			t.Errorf("chunk %d has no new content", i)
		}
		if got := utf8.RuneCountInString(c.Text); got > max {
			t.Errorf("chunk %d has %d runes, max %d", i, got, max)
		}
		if c.Overlap > overlap {
			t.Errorf("chunk %d overlap %d exceeds %d", i, c.Overlap, overlap)
		}
		if utf8.RuneCountInString(fresh) != c.End-c.Start {
			t.Errorf("chunk %d fresh length mismatch", i)
		}
		rebuilt.WriteString(fresh)
		next = c.End
	}
	if rebuilt.String() != text {
		t.Errorf("de-overlapped chunks do not reproduce the input")
	}
}
