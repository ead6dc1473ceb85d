package memory

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInMemoryStoreAppendAndRecent(t *testing.T) {
	s := NewInMemoryStore(0)

	for i := 0; i < 3; i++ {
		if err := s.AppendTurn(Turn{
			ID:        fmt.Sprintf("t%d", i),
			SessionID: "s1",
			Query:     fmt.Sprintf("question %d", i),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	turns, err := s.RecentTurns("s1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	// Chronological order: the two most recent turns.
	if turns[0].ID != "t1" || turns[1].ID != "t2" {
		t.Errorf("order = %s, %s; want t1, t2", turns[0].ID, turns[1].ID)
	}

	// Unknown sessions are empty, not an error.
	if other, _ := s.RecentTurns("nope", 5); len(other) != 0 {
		t.Errorf("unknown session returned %d turns", len(other))
	}
}

func TestInMemoryStoreEviction(t *testing.T) {
	s := NewInMemoryStore(3)

	for i := 0; i < 5; i++ {
		s.AppendTurn(Turn{ID: fmt.Sprintf("t%d", i), SessionID: "s1"})
	}

	turns, _ := s.RecentTurns("s1", 0)
	if len(turns) != 3 {
		t.Fatalf("got %d turns after eviction, want 3", len(turns))
	}
	if turns[0].ID != "t2" {
		t.Errorf("oldest surviving turn = %s, want t2", turns[0].ID)
	}
}

func TestInMemoryStoreTruncatesResponse(t *testing.T) {
	s := NewInMemoryStore(0)
	long := strings.Repeat("x", 2*maxResponseLen)

	s.AppendTurn(Turn{ID: "t0", SessionID: "s1", Response: long})

	turns, _ := s.RecentTurns("s1", 1)
	if len(turns[0].Response) != maxResponseLen {
		t.Errorf("stored response length = %d, want %d", len(turns[0].Response), maxResponseLen)
	}
}

func TestInMemoryStoreClear(t *testing.T) {
	s := NewInMemoryStore(0)
	s.AppendTurn(Turn{ID: "t0", SessionID: "s1"})
	s.AppendTurn(Turn{ID: "t1", SessionID: "s2"})

	if err := s.Clear("s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if turns, _ := s.RecentTurns("s1", 0); len(turns) != 0 {
		t.Error("cleared session still has turns")
	}
	if turns, _ := s.RecentTurns("s2", 0); len(turns) != 1 {
		t.Error("clear leaked into other sessions")
	}
}

func openTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := openTestSQLiteStore(t)

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.AppendTurn(Turn{
			ID:        fmt.Sprintf("t%d", i),
			SessionID: "s1",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Query:     fmt.Sprintf("question %d", i),
			Category:  "DESCRIPTIVE",
			SQL:       "SELECT 1",
			Response:  "answer",
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	turns, err := s.RecentTurns("s1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].ID != "t1" || turns[1].ID != "t2" {
		t.Errorf("order = %s, %s; want t1, t2", turns[0].ID, turns[1].ID)
	}
	if turns[0].Category != "DESCRIPTIVE" || turns[0].SQL != "SELECT 1" {
		t.Errorf("turn fields lost in round trip: %+v", turns[0])
	}
}

func TestSQLiteStoreClear(t *testing.T) {
	s := openTestSQLiteStore(t)

	s.AppendTurn(Turn{ID: "t0", SessionID: "s1", Timestamp: time.Now()})
	s.AppendTurn(Turn{ID: "t1", SessionID: "s2", Timestamp: time.Now()})

	if err := s.Clear("s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if turns, _ := s.RecentTurns("s1", 0); len(turns) != 0 {
		t.Error("cleared session still has turns")
	}
	if turns, _ := s.RecentTurns("s2", 0); len(turns) != 1 {
		t.Error("clear removed other sessions")
	}
}
