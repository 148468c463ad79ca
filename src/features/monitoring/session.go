package monitoring

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// session is one active monitoring run. It owns the watcher subscription
// and the loop goroutine consuming its events; done is closed when the
// loop has fully exited.
type session struct {
	id        string
	root      string
	startedAt time.Time
	watcher   Watcher
	events    chan FileEvent
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// attach installs a watcher on root and starts the event loop. Callers
// must hold the service mutex and have verified no session is active.
func (s *Service) attach(root string) (*session, error) {
	events := make(chan FileEvent, 64)
	w, err := s.newWatcher(events)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx, root); err != nil {
		cancel()
		return nil, err
	}

	sess := &session{
		id:        uuid.New().String(),
		root:      root,
		startedAt: time.Now(),
		watcher:   w,
		events:    events,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go s.runSession(sess)
	return sess, nil
}

// runSession consumes creation events until the session is cancelled or
// the subscription dies. A per-event move failure never ends the loop.
func (s *Service) runSession(sess *session) {
	defer close(sess.done)

	for {
		select {
		case <-sess.ctx.Done():
			return
		case <-sess.watcher.Done():
			// The subscription died underneath us; the session is over and
			// a fresh start is required.
			if sess.ctx.Err() == nil {
				slog.Error("Watch subscription lost, monitoring halted", "root", sess.root, "session", sess.id)
			}
			return
		case event := <-sess.events:
			s.handleCreated(sess, event)
		}
	}
}

// handleCreated processes one creation event from the watcher.
func (s *Service) handleCreated(sess *session, event FileEvent) {
	if event.EventType != FileCreated {
		return
	}

	info, err := os.Stat(event.Path)
	if err != nil {
		// Vanished between the event and now; TOCTOU races are accepted.
		slog.Debug("Created file vanished before processing", "path", event.Path)
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	moved, err := s.moveFile(sess.ctx, sess.root, event.Path)
	if err != nil {
		slog.Error("Failed to move new file", "path", event.Path, "error", err)
		s.metrics.RecordMoveError()
		return
	}
	if moved {
		slog.Debug("New file organized", "path", event.Path)
	}
}
