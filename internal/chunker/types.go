package chunker

import (
	"errors"
	"fmt"
)

// Role tells the model where a chunk sits in the transcript
type Role string

const (
	RoleOnly   Role = "only"
	RoleFirst  Role = "first"
	RoleMiddle Role = "middle"
	RoleLast   Role = "last"
)

const (
	DefaultMaxChars = 25000
	DefaultOverlap  = 500
	DefaultLookBack = 500
)

var (
	ErrChunking         = errors.New("chunking error")
	ErrDegenerateConfig = fmt.Errorf("%w: max chunk size must be greater than overlap", ErrChunking)
	ErrEmptyInput       = fmt.Errorf("%w: empty input", ErrChunking)
)

// Chunk is a contiguous slice of the normalized text. Offsets count runes.
// The first Overlap runes of Text repeat the tail of the previous chunk and
// are context only; Start and End delimit the new content.
type Chunk struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Role    Role   `json:"role"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Overlap int    `json:"overlap"`
}

// Fresh returns the chunk text without the leading overlap
func (c Chunk) Fresh() string {
	if c.Overlap == 0 {
		return c.Text
	}
	return string([]rune(c.Text)[c.Overlap:])
}

// Config controls window size, shared context and how far back a cut may
// move to land on a boundary
type Config struct {
	MaxChars int `yaml:"max_chars"`
	Overlap  int `yaml:"overlap"`
	LookBack int `yaml:"look_back"`
}

// DefaultConfig matches the context budget the summaries were tuned for
func DefaultConfig() Config {
	return Config{
		MaxChars: DefaultMaxChars,
		Overlap:  DefaultOverlap,
		LookBack: DefaultLookBack,
	}
}

// Fingerprint identifies the chunk layout this config produces
func (c Config) Fingerprint() string {
	return fmt.Sprintf("max=%d,overlap=%d,lookback=%d", c.MaxChars, c.Overlap, c.LookBack)
}

func (c Config) validate() error {
	if c.MaxChars <= 0 || c.Overlap < 0 || c.MaxChars <= c.Overlap {
		return fmt.Errorf("%w (max=%d overlap=%d)", ErrDegenerateConfig, c.MaxChars, c.Overlap)
	}
	return nil
}
