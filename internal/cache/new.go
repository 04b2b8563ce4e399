package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"

	keyPrefix = "tube2book:summary:"
)

var ErrUnknownBackend = errors.New("unknown cache backend")

// Config selects and configures the store
type Config struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// New opens the configured store. The redis store pings the server before
// returning.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendNone, "":
		return nopStore{}, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Key identifies a summary by everything that determines its content: the
// model, the prompt template, the chunk layout and the normalized transcript
func Key(model, templateHash, chunking, text string) string {
	h := sha256.New()
	for _, part := range []string{model, templateHash, chunking} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write([]byte(text))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
