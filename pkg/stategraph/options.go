package stategraph

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/stategraph/pkg/stategraph/history"
	"github.com/randalmurphal/stategraph/pkg/stategraph/observability"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxIterations sets the iteration ceiling. Values below one are
// ignored; the default is DefaultMaxIterations.
func WithMaxIterations(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithTimeout sets the wall-clock limit for a run. The limit is checked
// between node executions; a node that is already running is never
// interrupted. Zero or negative means no limit.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the structured logger used for run and node events.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for node executions, edge
// evaluations, and graph runs.
func WithMetrics() EngineOption {
	return func(e *Engine) {
		e.metrics = observability.NewMetricsRecorder()
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans for runs and node executions.
func WithTracing() EngineOption {
	return func(e *Engine) {
		e.spans = observability.NewSpanManager()
	}
}

// WithHistory sets a store that receives a run record after each
// Execute call. Persistence failures are logged and do not affect the
// run result.
func WithHistory(store history.Store) EngineOption {
	return func(e *Engine) {
		e.history = store
	}
}

// WithEngineTools sets the tool registry exposed to nodes through the
// execution context.
func WithEngineTools(tools *ToolRegistry) EngineOption {
	return func(e *Engine) {
		e.tools = tools
	}
}
