package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tidyfold/src/features/config"
	"tidyfold/src/sorting"
)

// Advisory conditions reported by the lifecycle operations. They are
// recoverable and leave the service state unchanged.
var (
	ErrNoRootSelected = errors.New("no folder selected")
	ErrAlreadyRunning = errors.New("monitoring is already running")
	ErrNotRunning     = errors.New("no monitoring to stop")
)

// Notifier receives one event per successful move.
type Notifier interface {
	Publish(event sorting.MoveEvent)
}

// Metrics receives instrumentation signals from the monitoring loop.
type Metrics interface {
	SetWatcherActive(active bool)
	RecordMoveError()
}

// Service is the domain service for the monitoring feature. It keeps the
// selected root, runs the sweep of pre-existing files before each session
// attaches, and guarantees at most one active watcher session.
type Service struct {
	config     *config.Manager
	table      *sorting.Table
	mover      Mover
	notifier   Notifier
	metrics    Metrics
	newWatcher WatcherFactory

	mu      sync.Mutex
	root    string
	session *session
}

// NewService creates a new monitoring service. The initially selected
// root, if any, comes from the configuration.
func NewService(cfg *config.Manager, table *sorting.Table, mover Mover, notifier Notifier, metrics Metrics, newWatcher WatcherFactory) *Service {
	return &Service{
		config:     cfg,
		table:      table,
		mover:      mover,
		notifier:   notifier,
		metrics:    metrics,
		newWatcher: newWatcher,
		root:       cfg.Get().Watch.Root,
	}
}

// Status describes the current monitoring state.
type Status struct {
	Root      string    `json:"root"`
	Running   bool      `json:"running"`
	SessionID string    `json:"session_id,omitempty"`
	StartedAt time.Time `json:"started_at,omitzero"`
}

// SelectRoot replaces the monitored root wholesale. The path must denote
// an existing directory. A running session keeps its original root until
// the next start.
func (s *Service) SelectRoot(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid folder path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot access folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", abs)
	}

	s.mu.Lock()
	s.root = abs
	s.mu.Unlock()

	slog.Info("Folder selected", "root", abs)
	return nil
}

// Start sweeps the selected root synchronously and then attaches a
// watcher session. It reports ErrNoRootSelected without a prior
// SelectRoot and ErrAlreadyRunning while a session is active.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.root == "" {
		return ErrNoRootSelected
	}
	s.reapDeadSession()
	if s.session != nil {
		return ErrAlreadyRunning
	}

	stats := s.sweep(ctx, s.root)
	slog.Info("Organized existing files",
		"root", s.root, "moved", stats.Moved, "skipped", stats.Skipped, "errors", stats.Errors)

	sess, err := s.attach(s.root)
	if err != nil {
		return err
	}
	s.session = sess
	s.metrics.SetWatcherActive(true)

	slog.Info("Monitoring started", "root", sess.root, "session", sess.id)
	return nil
}

// Stop detaches the active session, blocking until its watcher resource
// and loop goroutine are released. Stopping while idle reports
// ErrNotRunning harmlessly.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reapDeadSession()
	if s.session == nil {
		return ErrNotRunning
	}

	sess := s.session
	sess.cancel()
	sess.watcher.Stop()
	<-sess.done
	s.session = nil
	s.metrics.SetWatcherActive(false)

	slog.Info("Monitoring stopped", "root", sess.root, "session", sess.id)
	return nil
}

// Sweep re-runs the one-shot pass over the selected root. It refuses to
// run alongside an active session, which owns the root exclusively.
func (s *Service) Sweep(ctx context.Context) (SweepStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.root == "" {
		return SweepStats{}, ErrNoRootSelected
	}
	s.reapDeadSession()
	if s.session != nil {
		return SweepStats{}, ErrAlreadyRunning
	}

	stats := s.sweep(ctx, s.root)
	return stats, nil
}

// Status returns the current root and session state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reapDeadSession()
	status := Status{Root: s.root}
	if s.session != nil {
		status.Running = true
		status.SessionID = s.session.id
		status.StartedAt = s.session.startedAt
	}
	return status
}

// reapDeadSession clears a session whose loop ended on its own, after a
// fatal subscription error. Callers must hold the mutex.
func (s *Service) reapDeadSession() {
	if s.session == nil {
		return
	}
	select {
	case <-s.session.done:
		slog.Warn("Reaping failed monitoring session", "root", s.session.root, "session", s.session.id)
		s.session = nil
		s.metrics.SetWatcherActive(false)
	default:
	}
}

// moveFile classifies one file and, when a category matches, relocates it
// and publishes a MoveEvent. It reports (false, nil) for unclassified
// files and for files already sitting at their destination.
func (s *Service) moveFile(ctx context.Context, root, sourcePath string) (bool, error) {
	fileName := filepath.Base(sourcePath)
	category, ok := s.table.Classify(fileName)
	if !ok {
		return false, nil
	}

	// A recursive watch also reports our own moves: a file that is
	// already at its computed destination must be left alone.
	if sourcePath == filepath.Join(root, category, fileName) {
		return false, nil
	}

	destPath, err := s.mover.Move(ctx, sourcePath, root, category, fileName)
	if err != nil {
		return false, err
	}

	s.notifier.Publish(sorting.MoveEvent{
		FileName: fileName,
		Category: category,
		Source:   sourcePath,
		Dest:     destPath,
		Time:     time.Now(),
	})
	return true, nil
}
