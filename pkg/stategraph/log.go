package stategraph

import (
	"time"
)

// LogStatus is the lifecycle state recorded in an execution log entry.
type LogStatus string

// Log entry statuses. Every node invocation produces a StatusStarted
// entry strictly before its StatusCompleted or StatusFailed entry.
const (
	StatusStarted   LogStatus = "started"
	StatusCompleted LogStatus = "completed"
	StatusFailed    LogStatus = "failed"
)

// LogEntry records one engine event for a node invocation. Entries are
// owned by the Engine for the duration of one Execute call and cleared
// at the start of the next.
type LogEntry struct {
	// Node is the name of the node the entry concerns.
	Node string `json:"node"`

	// Status is started, completed, or failed.
	Status LogStatus `json:"status"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Iteration is the engine iteration the event belongs to.
	Iteration int `json:"iteration"`

	// Duration is the node execution time; zero for started entries.
	Duration time.Duration `json:"execution_time"`

	// Error carries the failure text for failed entries.
	Error string `json:"error,omitempty"`
}

// Summary aggregates one run's execution log.
type Summary struct {
	// TotalIterations is the number of loop iterations performed.
	TotalIterations int `json:"total_iterations"`

	// TotalDuration sums the execution time of completed entries.
	TotalDuration time.Duration `json:"total_execution_time"`

	// NodesExecuted counts completed entries.
	NodesExecuted int `json:"nodes_executed"`

	// NodesFailed counts failed entries.
	NodesFailed int `json:"nodes_failed"`

	// CompletedNodes lists the node names of completed entries in order.
	CompletedNodes []string `json:"completed_nodes"`

	// FailedNodes lists the node names of failed entries in order.
	FailedNodes []string `json:"failed_nodes"`
}

// summarize builds a Summary from a log.
func summarize(log []LogEntry, iterations int) Summary {
	s := Summary{TotalIterations: iterations}
	for _, e := range log {
		switch e.Status {
		case StatusCompleted:
			s.NodesExecuted++
			s.TotalDuration += e.Duration
			s.CompletedNodes = append(s.CompletedNodes, e.Node)
		case StatusFailed:
			s.NodesFailed++
			s.FailedNodes = append(s.FailedNodes, e.Node)
		}
	}
	return s
}
