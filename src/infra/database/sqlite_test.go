package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tidyfold/src/sorting"
)

func newTestHistory(t *testing.T) *SqliteHistory {
	t.Helper()
	h, err := NewSqliteHistory(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSqliteHistory failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestAddAndRecentMoves(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	records := []sorting.Record{
		{FileName: "a.png", Category: "Images", Source: "/tmp/a.png", Dest: "/tmp/Images/a.png", MovedAt: base},
		{FileName: "b.pdf", Category: "Documents", Source: "/tmp/b.pdf", Dest: "/tmp/Documents/b.pdf", MovedAt: base.Add(time.Minute)},
		{FileName: "c.mp4", Category: "Videos", Source: "/tmp/c.mp4", Dest: "/tmp/Videos/c.mp4", MovedAt: base.Add(2 * time.Minute)},
	}
	for i := range records {
		if err := h.AddMove(ctx, &records[i]); err != nil {
			t.Fatalf("AddMove failed: %v", err)
		}
		if records[i].ID == "" {
			t.Error("expected AddMove to assign an ID")
		}
	}

	recent, err := h.RecentMoves(ctx, 2)
	if err != nil {
		t.Fatalf("RecentMoves failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].FileName != "c.mp4" || recent[1].FileName != "b.pdf" {
		t.Errorf("expected newest first, got %s then %s", recent[0].FileName, recent[1].FileName)
	}
	if !recent[0].MovedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("unexpected timestamp round trip: %v", recent[0].MovedAt)
	}
}

func TestCountByCategory(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	for _, category := range []string{"Images", "Images", "Documents"} {
		record := sorting.Record{FileName: "f", Category: category, Source: "/s", Dest: "/d"}
		if err := h.AddMove(ctx, &record); err != nil {
			t.Fatalf("AddMove failed: %v", err)
		}
	}

	counts, err := h.CountByCategory(ctx)
	if err != nil {
		t.Fatalf("CountByCategory failed: %v", err)
	}
	if counts["Images"] != 2 || counts["Documents"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestRecentMovesEmpty(t *testing.T) {
	h := newTestHistory(t)

	recent, err := h.RecentMoves(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentMoves failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected no records, got %d", len(recent))
	}
}
