package memory

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists conversation turns across restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the history database at dbPath and
// ensures the conversation_turns table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS conversation_turns (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		query TEXT,
		category TEXT,
		sql_query TEXT,
		response TEXT,
		data_summary TEXT
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_turns_session
		ON conversation_turns (session_id, timestamp)`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendTurn inserts a new turn.
func (s *SQLiteStore) AppendTurn(turn Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO conversation_turns
			(id, session_id, timestamp, query, category, sql_query, response, data_summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.SessionID, turn.Timestamp, turn.Query, turn.Category,
		turn.SQL, truncateResponse(turn.Response), turn.DataSummary,
	)
	return err
}

// RecentTurns returns the last n turns for the session, oldest first.
func (s *SQLiteStore) RecentTurns(sessionID string, n int) ([]Turn, error) {
	query := `SELECT id, session_id, timestamp, query, category, sql_query, response, data_summary
		FROM conversation_turns WHERE session_id = ? ORDER BY timestamp DESC, id DESC`
	args := []interface{}{sessionID}
	if n > 0 {
		query += ` LIMIT ?`
		args = append(args, n)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Timestamp, &t.Query,
			&t.Category, &t.SQL, &t.Response, &t.DataSummary); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows come back newest first; flip to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Clear drops all turns for the session.
func (s *SQLiteStore) Clear(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM conversation_turns WHERE session_id = ?`, sessionID)
	return err
}
