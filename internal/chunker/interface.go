package chunker

// Splitter cuts normalized transcript text into ordered chunks
type Splitter interface {
	Split(text string) ([]Chunk, error)
}
