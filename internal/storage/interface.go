package storage

import "context"

// Publisher copies rendered documents to object storage
type Publisher interface {
	// Publish uploads each file under prefix and returns the object keys
	// in the order given
	Publish(ctx context.Context, prefix string, paths []string) ([]Object, error)
}
