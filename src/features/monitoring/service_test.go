package monitoring

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tidyfold/src/features/config"
	"tidyfold/src/infra/files"
	"tidyfold/src/sorting"
)

type fakeWatcher struct {
	events   chan<- FileEvent
	done     chan struct{}
	stopOnce sync.Once
}

func (w *fakeWatcher) Start(ctx context.Context, root string) error { return nil }

func (w *fakeWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

func (w *fakeWatcher) Done() <-chan struct{} { return w.done }

func (w *fakeWatcher) emit(path string) {
	w.events <- FileEvent{Path: path, EventType: FileCreated, Timestamp: time.Now()}
}

type fakeWatcherFactory struct {
	mu       sync.Mutex
	watchers []*fakeWatcher
	startErr error
}

func (f *fakeWatcherFactory) new(events chan<- FileEvent) (Watcher, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	w := &fakeWatcher{events: events, done: make(chan struct{})}
	f.mu.Lock()
	f.watchers = append(f.watchers, w)
	f.mu.Unlock()
	return w, nil
}

func (f *fakeWatcherFactory) last() *fakeWatcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.watchers) == 0 {
		return nil
	}
	return f.watchers[len(f.watchers)-1]
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sorting.MoveEvent
}

func (n *recordingNotifier) Publish(event sorting.MoveEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) list() []sorting.MoveEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sorting.MoveEvent(nil), n.events...)
}

type nopMetrics struct{}

func (nopMetrics) SetWatcherActive(active bool) {}
func (nopMetrics) RecordMoveError()             {}

type failingMover struct{}

func (failingMover) Move(ctx context.Context, sourcePath, destRoot, category, fileName string) (string, error) {
	return "", errors.New("disk on fire")
}

func testTable(t *testing.T) *sorting.Table {
	t.Helper()
	table, err := sorting.NewTable([]sorting.Rule{
		{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif"}},
		{Name: "Documents", Extensions: []string{".pdf", ".docx", ".txt"}},
		{Name: "Videos", Extensions: []string{".mp4", ".mkv"}},
	})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	return table
}

func newTestService(t *testing.T, factory *fakeWatcherFactory, notifier *recordingNotifier) *Service {
	t.Helper()
	cfg := config.NewManager(&config.Config{})
	return NewService(cfg, testTable(t), files.NewMover(), notifier, nopMetrics{}, factory.new)
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func waitForMoves(t *testing.T, notifier *recordingNotifier, n int) []sorting.MoveEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events := notifier.list()
		if len(events) >= n {
			return events
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d move events, have %d", n, len(notifier.list()))
	return nil
}

func TestStartWithoutRootFails(t *testing.T) {
	service := newTestService(t, &fakeWatcherFactory{}, &recordingNotifier{})

	if err := service.Start(context.Background()); !errors.Is(err, ErrNoRootSelected) {
		t.Errorf("expected ErrNoRootSelected, got %v", err)
	}
	if _, err := service.Sweep(context.Background()); !errors.Is(err, ErrNoRootSelected) {
		t.Errorf("expected ErrNoRootSelected from Sweep, got %v", err)
	}
}

func TestSelectRootRejectsNonDirectory(t *testing.T) {
	service := newTestService(t, &fakeWatcherFactory{}, &recordingNotifier{})

	file := filepath.Join(t.TempDir(), "plain.txt")
	writeFile(t, file)

	if err := service.SelectRoot(file); err == nil {
		t.Error("expected selecting a file to fail")
	}
	if err := service.SelectRoot(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected selecting a missing path to fail")
	}
}

func TestStartSweepsExistingFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.png"))
	writeFile(t, filepath.Join(root, "b.txt"))
	writeFile(t, filepath.Join(root, "c.unknown"))

	notifier := &recordingNotifier{}
	service := newTestService(t, &fakeWatcherFactory{}, notifier)
	if err := service.SelectRoot(root); err != nil {
		t.Fatalf("SelectRoot failed: %v", err)
	}
	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer service.Stop()

	for _, want := range []struct{ path, category string }{
		{filepath.Join(root, "Images", "a.png"), "Images"},
		{filepath.Join(root, "Documents", "b.txt"), "Documents"},
	} {
		if _, err := os.Stat(want.path); err != nil {
			t.Errorf("expected %s to exist: %v", want.path, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "c.unknown")); err != nil {
		t.Errorf("expected unclassified file to stay put: %v", err)
	}

	events := notifier.list()
	if len(events) != 2 {
		t.Fatalf("expected 2 move events, got %d", len(events))
	}
	if events[0].FileName != "a.png" || events[0].Category != "Images" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].FileName != "b.txt" || events[1].Category != "Documents" {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}

func TestStartTwiceIsRejected(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, &fakeWatcherFactory{}, &recordingNotifier{})
	if err := service.SelectRoot(root); err != nil {
		t.Fatalf("SelectRoot failed: %v", err)
	}
	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer service.Stop()

	if err := service.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
	if _, err := service.Sweep(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning from Sweep, got %v", err)
	}
}

func TestStopWhenIdle(t *testing.T) {
	service := newTestService(t, &fakeWatcherFactory{}, &recordingNotifier{})

	if err := service.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

func TestStopStartCycle(t *testing.T) {
	root := t.TempDir()
	factory := &fakeWatcherFactory{}
	service := newTestService(t, factory, &recordingNotifier{})
	if err := service.SelectRoot(root); err != nil {
		t.Fatalf("SelectRoot failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := service.Start(context.Background()); err != nil {
			t.Fatalf("Start %d failed: %v", i, err)
		}
		if !service.Status().Running {
			t.Fatalf("expected running status after start %d", i)
		}
		if err := service.Stop(); err != nil {
			t.Fatalf("Stop %d failed: %v", i, err)
		}
		if service.Status().Running {
			t.Fatalf("expected idle status after stop %d", i)
		}
	}
	if len(factory.watchers) != 3 {
		t.Errorf("expected a fresh watcher per session, got %d", len(factory.watchers))
	}
}

func TestLiveEventMovesFile(t *testing.T) {
	root := t.TempDir()
	notifier := &recordingNotifier{}
	factory := &fakeWatcherFactory{}
	service := newTestService(t, factory, notifier)
	if err := service.SelectRoot(root); err != nil {
		t.Fatalf("SelectRoot failed: %v", err)
	}
	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer service.Stop()

	path := filepath.Join(root, "d.mp4")
	writeFile(t, path)
	factory.last().emit(path)

	events := waitForMoves(t, notifier, 1)
	if events[0].FileName != "d.mp4" || events[0].Category != "Videos" {
		t.Errorf("unexpected event: %+v", events[0])
	}
	if _, err := os.Stat(filepath.Join(root, "Videos", "d.mp4")); err != nil {
		t.Errorf("expected file under Videos: %v", err)
	}
}

func TestEventForOwnMoveIsIgnored(t *testing.T) {
	root := t.TempDir()
	notifier := &recordingNotifier{}
	factory := &fakeWatcherFactory{}
	service := newTestService(t, factory, notifier)
	if err := service.SelectRoot(root); err != nil {
		t.Fatalf("SelectRoot failed: %v", err)
	}
	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer service.Stop()

	// Settled destination path, as the recursive watch would report it
	// right after our own move.
	dest := filepath.Join(root, "Images", "e.png")
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	writeFile(t, dest)
	factory.last().emit(dest)

	time.Sleep(100 * time.Millisecond)
	if events := notifier.list(); len(events) != 0 {
		t.Errorf("expected no events for a settled file, got %d", len(events))
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("expected settled file to stay put: %v", err)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"))

	notifier := &recordingNotifier{}
	service := newTestService(t, &fakeWatcherFactory{}, notifier)
	if err := service.SelectRoot(root); err != nil {
		t.Fatalf("SelectRoot failed: %v", err)
	}

	first, err := service.Sweep(context.Background())
	if err != nil {
		t.Fatalf("first Sweep failed: %v", err)
	}
	if first.Moved != 1 {
		t.Errorf("expected 1 move on first sweep, got %+v", first)
	}

	second, err := service.Sweep(context.Background())
	if err != nil {
		t.Fatalf("second Sweep failed: %v", err)
	}
	if second.Moved != 0 || second.Errors != 0 {
		t.Errorf("expected a clean no-op second sweep, got %+v", second)
	}
	if len(notifier.list()) != 1 {
		t.Errorf("expected exactly 1 event overall, got %d", len(notifier.list()))
	}
}

func TestWatcherDeathAllowsRestart(t *testing.T) {
	root := t.TempDir()
	factory := &fakeWatcherFactory{}
	service := newTestService(t, factory, &recordingNotifier{})
	if err := service.SelectRoot(root); err != nil {
		t.Fatalf("SelectRoot failed: %v", err)
	}
	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Simulate the subscription dying underneath the session.
	factory.last().Stop()

	deadline := time.Now().Add(2 * time.Second)
	for service.Status().Running && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if service.Status().Running {
		t.Fatal("expected status to report idle after watcher death")
	}

	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("restart after watcher death failed: %v", err)
	}
	service.Stop()
}

func TestMoveFailureKeepsSessionAlive(t *testing.T) {
	root := t.TempDir()
	notifier := &recordingNotifier{}
	factory := &fakeWatcherFactory{}
	cfg := config.NewManager(&config.Config{})
	service := NewService(cfg, testTable(t), failingMover{}, notifier, nopMetrics{}, factory.new)
	if err := service.SelectRoot(root); err != nil {
		t.Fatalf("SelectRoot failed: %v", err)
	}
	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer service.Stop()

	path := filepath.Join(root, "f.gif")
	writeFile(t, path)
	factory.last().emit(path)

	time.Sleep(100 * time.Millisecond)
	if !service.Status().Running {
		t.Error("expected session to survive a mover failure")
	}
	if len(notifier.list()) != 0 {
		t.Error("expected no event for a failed move")
	}
}
