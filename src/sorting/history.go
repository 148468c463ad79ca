package sorting

import (
	"context"
	"time"
)

// Record is a persisted MoveEvent.
type Record struct {
	ID       string    `json:"id"`
	FileName string    `json:"file_name"`
	Category string    `json:"category"`
	Source   string    `json:"source"`
	Dest     string    `json:"dest"`
	MovedAt  time.Time `json:"moved_at"`
}

// History is the ledger of completed moves.
type History interface {
	// AddMove appends one move record. An empty ID is assigned by the store.
	AddMove(ctx context.Context, rec *Record) error
	// RecentMoves returns up to limit records, newest first.
	RecentMoves(ctx context.Context, limit int) ([]Record, error)
	// CountByCategory returns the total number of moves per category.
	CountByCategory(ctx context.Context) (map[string]int, error)
}
