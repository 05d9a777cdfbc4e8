// Package history persists completed run records: final state, outcome,
// and the per-node execution log. It is the persistence collaborator the
// engine hands its log export to; it is not a checkpoint/resume
// mechanism and stores nothing mid-run.
package history

import (
	"errors"
	"time"
)

// Store errors.
var (
	// ErrNotFound indicates no record exists for the requested run.
	ErrNotFound = errors.New("run not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store is closed")
)

// Run states recorded in history.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Entry is one execution-log record. It mirrors the engine's log export:
// an ordered sequence where a "started" entry strictly precedes its
// matching terminal entry.
type Entry struct {
	Node      string        `json:"node"`
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Iteration int           `json:"iteration"`
	Duration  time.Duration `json:"execution_time"`
	Error     string        `json:"error,omitempty"`
}

// Record is the durable summary of one run.
type Record struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`

	// Graph is the name of the executed graph.
	Graph string `json:"graph"`

	// Status is StatusCompleted or StatusFailed.
	Status string `json:"status"`

	// Error carries the failure text for failed runs.
	Error string `json:"error,omitempty"`

	// StartedAt and CompletedAt bound the run.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	// FinalState is the serialized final state (State.ToJSON).
	FinalState []byte `json:"final_state"`

	// Entries is the execution log in order.
	Entries []Entry `json:"entries"`
}

// Store persists run records.
//
// Implementations must be safe for concurrent use: multiple engines may
// share one store.
type Store interface {
	// SaveRun persists a record, replacing any record with the same run ID.
	SaveRun(rec Record) error

	// LoadRun returns the record for a run ID, or ErrNotFound.
	LoadRun(runID string) (Record, error)

	// ListRuns returns summaries (records without entries or final
	// state) for every stored run, most recent first.
	ListRuns() ([]Record, error)

	// DeleteRun removes a run's record. Deleting an absent run is not
	// an error.
	DeleteRun(runID string) error

	// Close releases resources. Operations after Close return
	// ErrStoreClosed.
	Close() error
}
