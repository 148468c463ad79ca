package monitoring

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
)

// SweepStats summarizes one sweep over the root's existing files.
type SweepStats struct {
	Moved   int `json:"moved"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// sweep classifies and relocates the regular files sitting directly in
// root. A per-file failure is logged and counted; it never aborts the
// pass. Unclassified files stay where they are.
func (s *Service) sweep(ctx context.Context, root string) SweepStats {
	var stats SweepStats

	entries, err := os.ReadDir(root)
	if err != nil {
		slog.Error("Failed to list folder for sweep", "root", root, "error", err)
		stats.Errors++
		return stats
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		moved, err := s.moveFile(ctx, root, filepath.Join(root, entry.Name()))
		if err != nil {
			slog.Error("Failed to move existing file", "file", entry.Name(), "error", err)
			s.metrics.RecordMoveError()
			stats.Errors++
			continue
		}
		if moved {
			stats.Moved++
		} else {
			stats.Skipped++
		}
	}

	return stats
}
