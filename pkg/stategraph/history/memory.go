package history

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory run-history store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]Record
	closed bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]Record)}
}

// SaveRun implements Store.
func (m *MemoryStore) SaveRun(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy slices so the stored record does not alias the caller's.
	stored := rec
	stored.FinalState = append([]byte(nil), rec.FinalState...)
	stored.Entries = append([]Entry(nil), rec.Entries...)

	m.runs[rec.RunID] = stored
	return nil
}

// LoadRun implements Store.
func (m *MemoryStore) LoadRun(runID string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Record{}, ErrStoreClosed
	}

	rec, ok := m.runs[runID]
	if !ok {
		return Record{}, ErrNotFound
	}

	out := rec
	out.FinalState = append([]byte(nil), rec.FinalState...)
	out.Entries = append([]Entry(nil), rec.Entries...)
	return out, nil
}

// ListRuns implements Store.
func (m *MemoryStore) ListRuns() ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make([]Record, 0, len(m.runs))
	for _, rec := range m.runs {
		summary := rec
		summary.FinalState = nil
		summary.Entries = nil
		out = append(out, summary)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.runs, runID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.runs = nil
	return nil
}

// Len returns the number of stored runs. Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}
