// Package warehouse provides read-only access to the CFG Ukraine finance
// warehouse: SQL generation from natural language, safety validation, and a
// SQLite-backed executor over the financial star schema.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ProbeResult is the outcome of one warehouse query. It never carries a Go
// error: execution failure is recorded in Err so that downstream routing
// treats a failed probe and an empty result as the same signal.
type ProbeResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	Err      string           `json:"error,omitempty"`
}

// Unusable reports whether the probe produced nothing the responder can use,
// either because the query failed or because it returned no rows.
func (p *ProbeResult) Unusable() bool {
	return p == nil || p.Err != "" || p.RowCount == 0
}

// Executor runs SQL against the warehouse.
type Executor interface {
	Query(ctx context.Context, query string) *ProbeResult
}

// SQLiteWarehouse is an Executor over a local SQLite rendition of the finance
// star schema. The schema and FY2025 seed data are created on open if absent.
type SQLiteWarehouse struct {
	db *sql.DB
}

// Open opens (or creates) the warehouse database at dbPath and ensures the
// star schema exists. A fresh database is seeded with the FY2025 dataset.
func Open(dbPath string) (*SQLiteWarehouse, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("warehouse schema init: %w", err)
	}

	w := &SQLiteWarehouse{db: db}
	if err := w.seedIfEmpty(); err != nil {
		db.Close()
		return nil, fmt.Errorf("warehouse seed: %w", err)
	}
	return w, nil
}

// Close releases the database connection.
func (w *SQLiteWarehouse) Close() error {
	return w.db.Close()
}

func (w *SQLiteWarehouse) seedIfEmpty() error {
	var n int
	if err := w.db.QueryRow(`SELECT COUNT(*) FROM Fact_Financials`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, a := range seedAccounts {
		if _, err := tx.Exec(
			`INSERT INTO Dim_Account (AccountKey, AccountCode, FinalParentAccountCode, Description) VALUES (?, ?, ?, ?)`,
			a.key, a.code, a.parent, a.desc,
		); err != nil {
			return err
		}
	}
	for _, p := range seedPeriods {
		if _, err := tx.Exec(
			`INSERT INTO Dim_Period (PeriodKey, PeriodName, PeriodNumber, FiscalQuarter) VALUES (?, ?, ?, ?)`,
			p.key, p.name, p.key, p.quarter,
		); err != nil {
			return err
		}
	}
	for _, y := range seedYears {
		if _, err := tx.Exec(
			`INSERT INTO Dim_Year (YearKey, CalendarYear, FiscalYearLabel) VALUES (?, ?, ?)`,
			y.key, y.year, y.label,
		); err != nil {
			return err
		}
	}
	for _, s := range seedScenarios {
		if _, err := tx.Exec(
			`INSERT INTO Dim_Scenario (ScenarioKey, ScenarioName) VALUES (?, ?)`,
			s.key, s.name,
		); err != nil {
			return err
		}
	}

	// Annual totals spread evenly across the covered months, FY25 only.
	const fy25 = 2
	for _, t := range seedTotals {
		monthly := t.amount / float64(t.months)
		for period := 1; period <= t.months; period++ {
			if _, err := tx.Exec(
				`INSERT INTO Fact_Financials (AccountKey, PeriodKey, ScenarioKey, YearKey, Amount) VALUES (?, ?, ?, ?, ?)`,
				t.account, period, t.scenario, fy25, monthly,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Query executes the SQL and packages rows as column-keyed maps. All failure
// modes land in ProbeResult.Err rather than an error return.
func (w *SQLiteWarehouse) Query(ctx context.Context, query string) *ProbeResult {
	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		return &ProbeResult{Err: err.Error()}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return &ProbeResult{Err: err.Error()}
	}

	result := &ProbeResult{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return &ProbeResult{Columns: cols, Err: err.Error()}
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return &ProbeResult{Columns: cols, Err: err.Error()}
	}

	result.RowCount = len(result.Rows)
	return result
}
