package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tidyfold/src/features/monitoring"
)

// Watcher delivers file creation events beneath a root directory using
// fsnotify. fsnotify watches are per-directory, so the root's subtree is
// walked on start and newly created directories are added on the fly.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan<- monitoring.FileEvent

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher that delivers events into the given channel.
func New(events chan<- monitoring.FileEvent) (monitoring.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		fs:     fsw,
		events: events,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Start subscribes to root and its current subdirectories and begins
// delivering creation events.
func (w *Watcher) Start(ctx context.Context, root string) error {
	if err := w.addTree(root); err != nil {
		w.fs.Close()
		close(w.done)
		return err
	}
	go w.loop(ctx)
	slog.Debug("File watcher started", "root", root)
	return nil
}

// Stop tears the subscription down and blocks until the event loop has
// exited. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.fs.Close()
	})
	<-w.done
}

// Done is closed when event delivery has ended.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// addTree registers root and every directory beneath it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			w.handleCreate(ctx, event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleCreate(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		// Already gone; nothing to report.
		return
	}

	if info.IsDir() {
		// New directories join the subscription so files created inside
		// them are reported too. Files that landed before the watch was in
		// place are picked up by walking the new subtree.
		if err := w.addTree(path); err != nil {
			slog.Warn("Failed to watch new directory", "path", path, "error", err)
		}
		return
	}

	fileEvent := monitoring.FileEvent{
		Path:      path,
		EventType: monitoring.FileCreated,
		Timestamp: time.Now(),
	}
	select {
	case w.events <- fileEvent:
	case <-w.stop:
	case <-ctx.Done():
	}
}
