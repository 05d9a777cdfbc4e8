package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists run records to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a SQLite-backed store.
// The path should be a file path (e.g. "./history.db") or ":memory:"
// for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL improves concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			graph TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			final_state BLOB
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS run_log (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			node TEXT NOT NULL,
			status TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			iteration INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, seq)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create run_log table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_run_log_run_id ON run_log(run_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveRun implements Store.
func (s *SQLiteStore) SaveRun(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO runs (run_id, graph, status, error, started_at, completed_at, final_state)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			graph = excluded.graph,
			status = excluded.status,
			error = excluded.error,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			final_state = excluded.final_state
	`, rec.RunID, rec.Graph, rec.Status, rec.Error,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.CompletedAt.UTC().Format(time.RFC3339Nano),
		rec.FinalState); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM run_log WHERE run_id = ?`, rec.RunID); err != nil {
		return fmt.Errorf("clear run log: %w", err)
	}

	for i, e := range rec.Entries {
		if _, err := tx.Exec(`
			INSERT INTO run_log (run_id, seq, node, status, timestamp, iteration, duration_ns, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.RunID, i, e.Node, e.Status,
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			e.Iteration, int64(e.Duration), e.Error); err != nil {
			return fmt.Errorf("save log entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// LoadRun implements Store.
func (s *SQLiteStore) LoadRun(runID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Record{}, ErrStoreClosed
	}

	var (
		rec       Record
		startedAt string
		completed string
	)
	err := s.db.QueryRow(`
		SELECT run_id, graph, status, error, started_at, completed_at, final_state
		FROM runs WHERE run_id = ?
	`, runID).Scan(&rec.RunID, &rec.Graph, &rec.Status, &rec.Error,
		&startedAt, &completed, &rec.FinalState)
	if err == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load run: %w", err)
	}
	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	rec.CompletedAt, _ = time.Parse(time.RFC3339Nano, completed)

	rows, err := s.db.Query(`
		SELECT node, status, timestamp, iteration, duration_ns, error
		FROM run_log WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return Record{}, fmt.Errorf("load run log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e          Entry
			ts         string
			durationNs int64
		)
		if err := rows.Scan(&e.Node, &e.Status, &ts, &e.Iteration, &durationNs, &e.Error); err != nil {
			return Record{}, fmt.Errorf("scan log entry: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		e.Duration = time.Duration(durationNs)
		rec.Entries = append(rec.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return Record{}, fmt.Errorf("iterate run log: %w", err)
	}

	return rec, nil
}

// ListRuns implements Store.
func (s *SQLiteStore) ListRuns() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT run_id, graph, status, error, started_at, completed_at
		FROM runs ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec       Record
			startedAt string
			completed string
		)
		if err := rows.Scan(&rec.RunID, &rec.Graph, &rec.Status, &rec.Error,
			&startedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		rec.CompletedAt, _ = time.Parse(time.RFC3339Nano, completed)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return out, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM run_log WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete run log: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM runs WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
