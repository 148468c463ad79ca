package monitoring

import (
	"context"
	"time"
)

// FileEventType represents the type of file system event
type FileEventType string

const (
	FileCreated FileEventType = "created"
)

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	EventType FileEventType
	Timestamp time.Time
}

// Watcher is the OS-level creation-event subscription behind one
// monitoring session.
type Watcher interface {
	// Start installs a recursive subscription on root and begins
	// delivering events. It fails if the subscription cannot be installed.
	Start(ctx context.Context, root string) error
	// Stop tears the subscription down. It is idempotent and blocks until
	// the underlying watch resource is released.
	Stop()
	// Done is closed when event delivery has ended, whether through Stop
	// or through a fatal subscription error.
	Done() <-chan struct{}
}

// WatcherFactory builds a fresh subscription for each session, delivering
// events into the given channel.
type WatcherFactory func(events chan<- FileEvent) (Watcher, error)
