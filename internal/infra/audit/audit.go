// Package audit journals every dropped row and rejected transaction of a
// processing run to SQLite. The journal records diagnostics only — ledger
// state itself is never persisted, and every run starts from an empty
// ledger regardless of what the journal contains.
package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ─── Schema ─────────────────────────────────────────────────────────────────

// migrations returns the journal schema. Each string is a single SQL
// statement (SQLite executes one at a time).
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			source      TEXT NOT NULL,
			started_at  TEXT NOT NULL,
			finished_at TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS entries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES runs(id),
			kind        TEXT NOT NULL,
			line        INTEGER,
			tx_id       INTEGER,
			tx_type     TEXT,
			client      INTEGER,
			reason      TEXT NOT NULL,
			occurred_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_run ON entries(run_id)`,
	}
}

// Entry kinds.
const (
	KindDroppedRow = "dropped_row"
	KindRejected   = "rejected_tx"
)

// ─── Journal ────────────────────────────────────────────────────────────────

// Journal is an open audit database.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if necessary) the journal at path and applies the
// schema.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	for _, stmt := range migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate audit db: %w", err)
		}
	}
	return &Journal{db: db}, nil
}

// Close releases the underlying database handle.
func (j *Journal) Close() error { return j.db.Close() }

// ─── Runs ───────────────────────────────────────────────────────────────────

// Run scopes journal entries to one processing run.
type Run struct {
	journal *Journal
	ID      string
}

// BeginRun registers a new run over the named source and returns its handle.
// The run id is a fresh UUID.
func (j *Journal) BeginRun(source string) (*Run, error) {
	id := uuid.NewString()
	_, err := j.db.Exec(
		`INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)`,
		id, source, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("begin audit run: %w", err)
	}
	return &Run{journal: j, ID: id}, nil
}

// Finish stamps the run's completion time.
func (r *Run) Finish() error {
	_, err := r.journal.db.Exec(
		`UPDATE runs SET finished_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), r.ID,
	)
	return err
}

// DroppedRow journals a malformed input row.
func (r *Run) DroppedRow(line int, reason string) error {
	_, err := r.journal.db.Exec(
		`INSERT INTO entries (run_id, kind, line, reason, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		r.ID, KindDroppedRow, line, reason, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// RejectedTx journals a transaction the ledger refused.
func (r *Run) RejectedTx(txID uint32, txType string, client uint16, reason string) error {
	_, err := r.journal.db.Exec(
		`INSERT INTO entries (run_id, kind, tx_id, tx_type, client, reason, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, KindRejected, txID, txType, client, reason, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ─── Queries ────────────────────────────────────────────────────────────────

// Entry is one journaled diagnostic.
type Entry struct {
	RunID  string
	Kind   string
	Line   int
	TxID   uint32
	TxType string
	Client uint16
	Reason string
}

// Entries returns the journal for a run in insertion order. An empty runID
// returns entries for all runs.
func (j *Journal) Entries(runID string) ([]Entry, error) {
	query := `SELECT run_id, kind, COALESCE(line, 0), COALESCE(tx_id, 0),
	                 COALESCE(tx_type, ''), COALESCE(client, 0), reason
	          FROM entries`
	args := []any{}
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id`

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.Kind, &e.Line, &e.TxID, &e.TxType, &e.Client, &e.Reason); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
