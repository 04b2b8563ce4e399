package chunker

type implSplitter struct {
	cfg Config
}

// New creates a Splitter. A negative look-back is treated as zero.
func New(cfg Config) Splitter {
	if cfg.LookBack < 0 {
		cfg.LookBack = 0
	}
	return &implSplitter{cfg: cfg}
}

// Split cuts text with the default look-back window
func Split(text string, maxChunkChars, overlapChars int) ([]Chunk, error) {
	return New(Config{
		MaxChars: maxChunkChars,
		Overlap:  overlapChars,
		LookBack: DefaultLookBack,
	}).Split(text)
}

// NeedsChunking reports whether text is longer than maxChars runes
func NeedsChunking(text string, maxChars int) bool {
	n := 0
	for range text {
		n++
		if n > maxChars {
			return true
		}
	}
	return false
}
