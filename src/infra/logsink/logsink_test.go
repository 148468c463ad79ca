package logsink

import (
	"os"
	"path/filepath"
	"testing"

	"tidyfold/src/sorting"
)

func TestFileSink_AppendsOneLinePerMove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	sink := New(path)

	if err := sink.Write(sorting.MoveEvent{FileName: "a.png", Category: "Images"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := sink.Write(sorting.MoveEvent{FileName: "b.txt", Category: "Documents"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Moved: a.png -> Images\nMoved: b.txt -> Documents\n"
	if string(data) != want {
		t.Errorf("log content = %q, want %q", string(data), want)
	}
}

func TestFileSink_WriteFailsOnUnwritablePath(t *testing.T) {
	sink := New(filepath.Join(t.TempDir(), "missing", "log.txt"))
	if err := sink.Write(sorting.MoveEvent{FileName: "a.png", Category: "Images"}); err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}
