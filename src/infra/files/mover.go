package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Mover relocates files into category directories beneath a destination
// root. It implements the monitoring.Mover interface.
type Mover struct{}

// NewMover creates a new file mover.
func NewMover() *Mover {
	return &Mover{}
}

// Move ensures destRoot/category exists and relocates sourcePath to
// destRoot/category/fileName, overwriting any existing file of the same
// name. The rename is attempted first; a cross-device rename falls back
// to copy-then-remove. On failure the source file is left in place.
func (m *Mover) Move(ctx context.Context, sourcePath, destRoot, category, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	destDir := filepath.Join(destRoot, category)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create category directory: %w", err)
	}

	destPath := filepath.Join(destDir, fileName)
	if err := os.Rename(sourcePath, destPath); err != nil {
		if !isCrossDeviceError(err) {
			return "", fmt.Errorf("failed to move file: %w", err)
		}
		if err := copyFile(sourcePath, destPath); err != nil {
			return "", fmt.Errorf("failed to copy file across devices: %w", err)
		}
		if err := os.Remove(sourcePath); err != nil {
			return "", fmt.Errorf("failed to remove original file after copy: %w", err)
		}
	}

	return destPath, nil
}

// isCrossDeviceError checks if an error is due to cross-device link (moving across filesystems)
func isCrossDeviceError(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

func copyFile(src, dst string) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()
	_, err = io.Copy(destination, source)
	return err
}
