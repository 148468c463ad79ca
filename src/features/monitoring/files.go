package monitoring

import "context"

// Mover relocates a classified file beneath the destination root.
type Mover interface {
	// Move places sourcePath at destRoot/category/fileName, creating the
	// category directory if needed, and returns the destination path.
	// An existing file of the same name is overwritten.
	Move(ctx context.Context, sourcePath, destRoot, category, fileName string) (string, error)
}
