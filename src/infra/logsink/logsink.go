// Package logsink appends one human-readable line per successful move to
// a plain text file.
package logsink

import (
	"fmt"
	"os"

	"tidyfold/src/sorting"
)

// FileSink writes move lines to a text file. The file is opened,
// appended, and closed on every write so a crash cannot corrupt lines
// written earlier.
type FileSink struct {
	path string
}

// New creates a sink writing to the given path.
func New(path string) *FileSink {
	return &FileSink{path: path}
}

// Write appends one "Moved: <fileName> -> <category>" line.
func (s *FileSink) Write(event sorting.MoveEvent) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open move log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "Moved: %s -> %s\n", event.FileName, event.Category); err != nil {
		return fmt.Errorf("failed to append to move log: %w", err)
	}
	return nil
}
