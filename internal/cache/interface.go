package cache

import (
	"context"
	"time"
)

// Store keeps finished summaries keyed by Key so an unchanged transcript is
// not sent to the model twice
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
