// Package telemetry records per-question pipeline events in SQLite and
// exposes the aggregate stats behind the dashboard endpoint.
package telemetry

import (
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// QueryEvent captures the outcome of one processed question.
type QueryEvent struct {
	ID         string
	SessionID  string
	Timestamp  time.Time
	Category   string
	DataSource string
	SQLSource  string
	LatencyMS  int64
	RowCount   int
	Error      string
}

// Stats holds aggregate query telemetry.
type Stats struct {
	TotalQueries int            `json:"total_queries"`
	AvgLatencyMS float64        `json:"avg_latency_ms"`
	ByCategory   map[string]int `json:"by_category"`
	ByDataSource map[string]int `json:"by_data_source"`
	ErrorCount   int            `json:"error_count"`
}

// Collector records query events and serves aggregate stats via SQLite.
type Collector struct {
	db *sql.DB
}

// NewCollector opens (or creates) the SQLite database at dbPath and ensures
// the query_events table exists.
func NewCollector(dbPath string) (*Collector, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS query_events (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		category TEXT,
		data_source TEXT,
		sql_source TEXT,
		latency_ms INTEGER,
		row_count INTEGER,
		error TEXT
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Collector{db: db}, nil
}

// Close releases the database connection.
func (c *Collector) Close() error {
	return c.db.Close()
}

// Record inserts a query event. Telemetry is best-effort: insert failures are
// logged, never surfaced to the caller.
func (c *Collector) Record(e QueryEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := c.db.Exec(
		`INSERT INTO query_events
			(id, session_id, timestamp, category, data_source, sql_source, latency_ms, row_count, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Timestamp, e.Category, e.DataSource,
		e.SQLSource, e.LatencyMS, e.RowCount, e.Error,
	)
	if err != nil {
		log.Printf("telemetry: recording event: %v", err)
	}
}

// GetStats returns aggregate stats. When sessionFilter is non-empty,
// TotalQueries and AvgLatencyMS are scoped to that session; the breakdowns
// and error count always cover all events.
func (c *Collector) GetStats(sessionFilter string) (*Stats, error) {
	stats := &Stats{
		ByCategory:   make(map[string]int),
		ByDataSource: make(map[string]int),
	}

	query := `SELECT COUNT(*), COALESCE(AVG(latency_ms), 0) FROM query_events`
	args := []interface{}{}
	if sessionFilter != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionFilter)
	}
	if err := c.db.QueryRow(query, args...).Scan(&stats.TotalQueries, &stats.AvgLatencyMS); err != nil {
		return nil, err
	}

	rows, err := c.db.Query(
		`SELECT category, COUNT(*) FROM query_events GROUP BY category`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows2, err := c.db.Query(
		`SELECT data_source, COUNT(*) FROM query_events GROUP BY data_source`,
	)
	if err != nil {
		return nil, err
	}
	defer rows2.Close()
	for rows2.Next() {
		var source string
		var count int
		if err := rows2.Scan(&source, &count); err != nil {
			return nil, err
		}
		stats.ByDataSource[source] = count
	}
	if err := rows2.Err(); err != nil {
		return nil, err
	}

	if err := c.db.QueryRow(
		`SELECT COUNT(*) FROM query_events WHERE error != ''`,
	).Scan(&stats.ErrorCount); err != nil {
		return nil, err
	}

	return stats, nil
}
