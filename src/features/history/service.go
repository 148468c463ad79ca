package history

import (
	"context"

	"tidyfold/src/sorting"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service exposes the recorded move history.
type Service struct {
	store sorting.History
}

// NewService creates a new history service.
func NewService(store sorting.History) *Service {
	return &Service{store: store}
}

// RecentMoves returns the newest records. A non-positive limit falls back
// to the default and anything above the cap is clamped.
func (s *Service) RecentMoves(ctx context.Context, limit int) ([]sorting.Record, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.store.RecentMoves(ctx, limit)
}

// CategoryCounts returns how many moves were recorded per category.
func (s *Service) CategoryCounts(ctx context.Context) (map[string]int, error) {
	return s.store.CountByCategory(ctx)
}
