package watcher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/tube2book/internal/logger"
	"github.com/nguyentantai21042004/tube2book/internal/transcript"
)

// dedupeWindow drops the second event editors and copy tools fire for one file
const dedupeWindow = 2 * time.Second

type implWatcher struct {
	cfg     Config
	handler EventHandler
	logger  logger.Logger
	fsw     *fsnotify.Watcher
	slots   chan struct{}
	wg      sync.WaitGroup

	mu   sync.Mutex
	seen map[string]time.Time
}

// Start blocks until ctx ends, handing each new transcript file to the
// handler with at most cfg.MaxConcurrent running
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Watching %s for transcripts (max concurrent: %d)", w.cfg.Dir, w.cfg.MaxConcurrent)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(transcript.SupportedExtensions, ", "))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for %d running job(s)...", len(w.slots))
			w.wg.Wait()
			w.logger.Info(ctx, "Watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}

			// CREATE for new files, WRITE for files that are copied in place
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !transcript.IsTranscriptFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-transcript file: %s", event.Name)
				continue
			}
			if !w.firstSighting(event.Name, time.Now()) {
				continue
			}

			w.logger.Info(ctx, "New transcript detected: %s", event.Name)

			select {
			case w.slots <- struct{}{}:
				w.wg.Add(1)
				go w.handle(ctx, event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the underlying fsnotify watcher
func (w *implWatcher) Stop() error {
	return w.fsw.Close()
}

// handle runs in its own goroutine holding one slot
func (w *implWatcher) handle(ctx context.Context, path string) {
	defer w.wg.Done()
	defer func() { <-w.slots }()

	if !w.wait(ctx) {
		return
	}
	if err := w.handler(ctx, path); err != nil {
		w.logger.Error(ctx, "Failed to process %s: %v", path, err)
	}
}

// wait sleeps for the settle delay unless ctx ends first
func (w *implWatcher) wait(ctx context.Context) bool {
	t := time.NewTimer(w.cfg.Settle)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// firstSighting reports whether path was not seen within dedupeWindow
func (w *implWatcher) firstSighting(path string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for p, at := range w.seen {
		if now.Sub(at) > dedupeWindow {
			delete(w.seen, p)
		}
	}
	if _, ok := w.seen[path]; ok {
		return false
	}
	w.seen[path] = now
	return true
}
