package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/tube2book/internal/logger"
)

// Config describes the directory to watch
type Config struct {
	Dir           string
	MaxConcurrent int
	// Settle is how long a new file must sit before it is read. Zero means
	// half a second.
	Settle time.Duration
}

// New watches cfg.Dir and runs handler for every transcript dropped into it
func New(cfg Config, handler EventHandler, log logger.Logger) (Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(cfg.Dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}

	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.Settle <= 0 {
		cfg.Settle = 500 * time.Millisecond
	}

	return &implWatcher{
		cfg:     cfg,
		handler: handler,
		logger:  log,
		fsw:     fw,
		slots:   make(chan struct{}, cfg.MaxConcurrent),
		seen:    make(map[string]time.Time),
	}, nil
}
