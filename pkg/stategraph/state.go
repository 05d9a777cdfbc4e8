package stategraph

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/randalmurphal/stategraph/pkg/stategraph/config"
)

// State is the immutable value that flows through a graph run.
//
// Every mutator returns a new State; the receiver is never modified.
// Data is shallow-merged on updates (new keys overwrite, existing keys
// are preserved), never replaced wholesale. No two State values returned
// by this package alias the same map or slice storage.
type State struct {
	// WorkflowID identifies the workflow definition this run belongs to.
	WorkflowID string `json:"workflow_id"`

	// RunID identifies this specific execution.
	RunID string `json:"run_id"`

	// Timestamp records when this state snapshot was created.
	Timestamp time.Time `json:"timestamp"`

	// Iteration is the current iteration number. Never negative.
	Iteration int `json:"iteration"`

	// Data holds workflow-specific values. The engine never interprets it.
	Data map[string]any `json:"data"`

	// Errors collects error messages in the order they occurred.
	Errors []string `json:"errors"`

	// Warnings collects warning messages in the order they occurred.
	Warnings []string `json:"warnings"`

	// Config holds optional configuration parameters for the run.
	Config map[string]any `json:"config"`
}

// NewState creates a State for a fresh run with an auto-generated run ID.
func NewState(workflowID string) State {
	return State{
		WorkflowID: workflowID,
		RunID:      uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		Data:       map[string]any{},
		Errors:     []string{},
		Warnings:   []string{},
		Config:     map[string]any{},
	}
}

// NewStateWithRunID creates a State with an explicit run ID, for callers
// that assign run identifiers themselves.
func NewStateWithRunID(workflowID, runID string) State {
	s := NewState(workflowID)
	s.RunID = runID
	return s
}

// clone returns a deep-enough copy: maps and slices are copied one level
// down so the new value shares no mutable storage with the receiver.
func (s State) clone() State {
	out := s
	out.Data = make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		out.Data[k] = v
	}
	out.Errors = append([]string(nil), s.Errors...)
	out.Warnings = append([]string(nil), s.Warnings...)
	out.Config = make(map[string]any, len(s.Config))
	for k, v := range s.Config {
		out.Config[k] = v
	}
	return out
}

// SetData returns a new State with key set in Data.
func (s State) SetData(key string, value any) State {
	out := s.clone()
	out.Data[key] = value
	return out
}

// MergeData returns a new State with data shallow-merged into Data.
// Keys in data overwrite existing keys; all other keys are preserved.
func (s State) MergeData(data map[string]any) State {
	out := s.clone()
	for k, v := range data {
		out.Data[k] = v
	}
	return out
}

// GetData returns the value for key, or def if the key is absent.
func (s State) GetData(key string, def any) any {
	if v, ok := s.Data[key]; ok {
		return v
	}
	return def
}

// AddError returns a new State with msg appended to Errors.
func (s State) AddError(msg string) State {
	out := s.clone()
	out.Errors = append(out.Errors, msg)
	return out
}

// AddWarning returns a new State with msg appended to Warnings.
func (s State) AddWarning(msg string) State {
	out := s.clone()
	out.Warnings = append(out.Warnings, msg)
	return out
}

// ClearErrors returns a new State with an empty error list.
func (s State) ClearErrors() State {
	out := s.clone()
	out.Errors = []string{}
	return out
}

// IncrementIteration returns a new State with Iteration advanced by one.
func (s State) IncrementIteration() State {
	out := s.clone()
	out.Iteration++
	return out
}

// HasErrors reports whether any errors have been recorded.
func (s State) HasErrors() bool {
	return len(s.Errors) > 0
}

// HasWarnings reports whether any warnings have been recorded.
func (s State) HasWarnings() bool {
	return len(s.Warnings) > 0
}

// ToJSON serializes the state for interchange with external persistence.
func (s State) ToJSON() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serialize state: %w", err)
	}
	return data, nil
}

// StateFromJSON deserializes a state previously produced by ToJSON.
// Nil maps and slices are normalized to empty so a round trip yields
// an equal value.
func StateFromJSON(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("deserialize state: %w", err)
	}
	if s.Data == nil {
		s.Data = map[string]any{}
	}
	if s.Errors == nil {
		s.Errors = []string{}
	}
	if s.Warnings == nil {
		s.Warnings = []string{}
	}
	if s.Config == nil {
		s.Config = map[string]any{}
	}
	return s, nil
}

// ConfigView returns the state's Config map behind the typed accessors
// of the config package. The view is read-only by convention.
func (s State) ConfigView() config.Config {
	return config.New(s.Config)
}

// String returns a compact description for logging.
func (s State) String() string {
	return fmt.Sprintf("State(workflow=%s, run=%s, iteration=%d, errors=%d, warnings=%d)",
		s.WorkflowID, s.RunID, s.Iteration, len(s.Errors), len(s.Warnings))
}
