package watcher

import "context"

// Watcher hands transcript files dropped into a directory to a handler
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one transcript file once it has stopped changing
type EventHandler func(ctx context.Context, path string) error
