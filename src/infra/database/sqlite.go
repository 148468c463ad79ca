package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tidyfold/src/sorting"
)

// SqliteHistory persists move records in an SQLite database.
type SqliteHistory struct {
	db *sql.DB
}

// NewSqliteHistory opens (and creates if needed) the database at path.
func NewSqliteHistory(path string) (*SqliteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	h := &SqliteHistory{db: db}
	if err := h.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *SqliteHistory) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS moves (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		category TEXT NOT NULL,
		source_path TEXT NOT NULL,
		dest_path TEXT NOT NULL,
		moved_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_moves_moved_at ON moves(moved_at);
	CREATE INDEX IF NOT EXISTS idx_moves_category ON moves(category);
	`
	if _, err := h.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// AddMove stores one move record, assigning an ID when none is set.
func (h *SqliteHistory) AddMove(ctx context.Context, record *sorting.Record) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.MovedAt.IsZero() {
		record.MovedAt = time.Now()
	}

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO moves (id, file_name, category, source_path, dest_path, moved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.FileName, record.Category, record.Source, record.Dest,
		record.MovedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert move record: %w", err)
	}
	return nil
}

// RecentMoves returns up to limit records, newest first.
func (h *SqliteHistory) RecentMoves(ctx context.Context, limit int) ([]sorting.Record, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, file_name, category, source_path, dest_path, moved_at
		 FROM moves ORDER BY moved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query move records: %w", err)
	}
	defer rows.Close()

	var records []sorting.Record
	for rows.Next() {
		var record sorting.Record
		var movedAt string
		if err := rows.Scan(&record.ID, &record.FileName, &record.Category,
			&record.Source, &record.Dest, &movedAt); err != nil {
			return nil, fmt.Errorf("failed to scan move record: %w", err)
		}
		record.MovedAt, err = time.Parse(time.RFC3339Nano, movedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse move timestamp: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CountByCategory returns the number of recorded moves per category.
func (h *SqliteHistory) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM moves GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count move records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// Close releases the underlying database handle.
func (h *SqliteHistory) Close() error {
	return h.db.Close()
}
