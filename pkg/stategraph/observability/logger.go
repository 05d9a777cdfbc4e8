// Package observability provides structured logging, metrics, and
// distributed tracing helpers for stategraph.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// LogRunStart logs the start of a graph run.
func LogRunStart(logger *slog.Logger, graph, runID string) {
	if logger == nil {
		return
	}
	logger.Info("graph run starting",
		slog.String("graph", graph),
		slog.String("run_id", runID),
	)
}

// LogRunComplete logs successful graph run completion.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, iterations int) {
	if logger == nil {
		return
	}
	logger.Info("graph run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("iterations", iterations),
	)
}

// LogRunError logs graph run failure.
func LogRunError(logger *slog.Logger, runID string, err error, durationMs float64, lastNode string) {
	if logger == nil {
		return
	}
	logger.Error("graph run failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.String("last_node", lastNode),
	)
}

// LogNodeStart logs node execution start.
func LogNodeStart(logger *slog.Logger, node string, iteration int) {
	if logger == nil {
		return
	}
	logger.Debug("node starting",
		slog.String("node", node),
		slog.Int("iteration", iteration),
	)
}

// LogNodeComplete logs successful node completion.
func LogNodeComplete(logger *slog.Logger, node string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("node completed",
		slog.String("node", node),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNodeFailed logs a node whose state came back carrying errors.
func LogNodeFailed(logger *slog.Logger, node string, errText string) {
	if logger == nil {
		return
	}
	logger.Error("node failed",
		slog.String("node", node),
		slog.String("error", errText),
	)
}

// LogRouteDecision logs where the edge manager routed after a node.
func LogRouteDecision(logger *slog.Logger, from, to string) {
	if logger == nil {
		return
	}
	logger.Debug("route decided",
		slog.String("from", from),
		slog.String("to", to),
	)
}

// LogRunEnd logs that routing found no next node and the run ended.
func LogRunEnd(logger *slog.Logger, lastNode string) {
	if logger == nil {
		return
	}
	logger.Debug("no next node, run ending",
		slog.String("last_node", lastNode),
	)
}

// LogHistoryError logs a run-history persistence failure (non-fatal).
func LogHistoryError(logger *slog.Logger, runID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("history write failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// The returned function reports the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
