// Package memory stores per-session conversation history so follow-up
// questions can reference earlier turns. Two implementations are provided: a
// bounded in-process store and a SQLite-backed one for persistence across
// restarts.
package memory

import (
	"sync"
	"time"
)

// maxResponseLen bounds the stored response text; full responses are returned
// to the caller but only a preview is kept for context.
const maxResponseLen = 500

// DefaultMaxTurns is the per-session history bound for the in-process store.
const DefaultMaxTurns = 10

// Turn is one completed question/answer exchange.
type Turn struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Timestamp   time.Time `json:"timestamp"`
	Query       string    `json:"query"`
	Category    string    `json:"category"`
	SQL         string    `json:"sql,omitempty"`
	Response    string    `json:"response"`
	DataSummary string    `json:"data_summary,omitempty"`
}

// Store is the conversation history surface the agent depends on.
type Store interface {
	// AppendTurn records a completed turn for its session.
	AppendTurn(turn Turn) error
	// RecentTurns returns up to n most recent turns for the session in
	// chronological order.
	RecentTurns(sessionID string, n int) ([]Turn, error)
	// Clear drops all history for the session.
	Clear(sessionID string) error
}

// truncateResponse caps the stored response preview.
func truncateResponse(s string) string {
	if len(s) > maxResponseLen {
		return s[:maxResponseLen]
	}
	return s
}

// InMemoryStore keeps a bounded ring of turns per session. Safe for
// concurrent use.
type InMemoryStore struct {
	mu       sync.Mutex
	maxTurns int
	sessions map[string][]Turn
}

// NewInMemoryStore returns a store keeping at most maxTurns turns per
// session; maxTurns <= 0 uses DefaultMaxTurns.
func NewInMemoryStore(maxTurns int) *InMemoryStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &InMemoryStore{
		maxTurns: maxTurns,
		sessions: make(map[string][]Turn),
	}
}

// AppendTurn records the turn, evicting the oldest once the session exceeds
// its bound.
func (s *InMemoryStore) AppendTurn(turn Turn) error {
	turn.Response = truncateResponse(turn.Response)
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[turn.SessionID], turn)
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.sessions[turn.SessionID] = turns
	return nil
}

// RecentTurns returns the last n turns for the session, oldest first.
func (s *InMemoryStore) RecentTurns(sessionID string, n int) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[sessionID]
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear drops the session's history.
func (s *InMemoryStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
