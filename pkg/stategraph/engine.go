package stategraph

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/randalmurphal/stategraph/pkg/stategraph/history"
	"github.com/randalmurphal/stategraph/pkg/stategraph/observability"
)

// DefaultMaxIterations is the iteration ceiling applied when
// WithMaxIterations is not used.
const DefaultMaxIterations = 100

// Engine drives a validated graph: it executes nodes, routes through
// edges, and enforces the iteration ceiling and the optional timeout.
//
// An Engine is reusable across runs but not reentrant: each Execute
// call replaces the previous run's execution log, so one engine must
// not run two graphs concurrently. Create one engine per concurrent
// run; engines are cheap.
//
// Two abort policies bound every run:
//
//   - the iteration ceiling is strict: a run that performs maxIterations
//     node executions fails with *MaxIterationsError even if it would
//     have ended naturally on that same step
//   - the timeout is checked between node executions only; a node that
//     is already running is never interrupted
//
// Node failures are not engine failures. A node whose state comes back
// carrying errors stops the run, and Execute returns the errored state
// with a nil error; callers inspect State.HasErrors. A failed step does
// not count toward the iteration ceiling.
type Engine struct {
	maxIterations int
	timeout       time.Duration
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	history       history.Store
	tools         *ToolRegistry

	log        []LogEntry
	iterations int
}

// NewEngine creates an engine with the given options.
//
// Example:
//
//	engine := stategraph.NewEngine(
//	    stategraph.WithMaxIterations(50),
//	    stategraph.WithTimeout(30*time.Second),
//	    stategraph.WithLogger(logger))
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		maxIterations: DefaultMaxIterations,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxIterations returns the configured iteration ceiling.
func (e *Engine) MaxIterations() int { return e.maxIterations }

// Timeout returns the configured wall-clock limit, zero if unlimited.
func (e *Engine) Timeout() time.Duration { return e.timeout }

// Execute runs the graph from its entry point until routing finds no
// next node, a node fails, or an abort policy fires.
//
// The returned error is non-nil only for engine and configuration
// failures: *ValidationError for structural violations,
// *MaxIterationsError, *TimeoutError, or ErrNodeMissing. Content
// failures travel in the returned state's Errors list with a nil error.
// The returned state is always the most recent one, including on abort.
func (e *Engine) Execute(ctx Context, g *Graph, initial State) (State, error) {
	if ctx == nil {
		return initial, ErrNilContext
	}
	if g == nil {
		return initial, errors.New("graph cannot be nil")
	}
	if err := g.Validate(); err != nil {
		return initial, &ValidationError{Graph: g.Name, Err: err}
	}

	e.log = nil
	e.iterations = 0

	ec := e.normalizeContext(ctx)
	runID := initial.RunID
	if runID == "" {
		runID = ec.RunID()
	}

	runCtx, runSpan := e.spans.StartRunSpan(ec, g.Name, runID)
	ec = ec.withParent(runCtx)

	observability.LogRunStart(e.logger, g.Name, runID)
	startedAt := time.Now().UTC()
	start := time.Now()

	state := initial
	current := g.EntryPoint()
	lastNode := ""
	var runErr error

	for current != "" && e.iterations < e.maxIterations {
		if e.timeout > 0 {
			if elapsed := time.Since(start); elapsed > e.timeout {
				runErr = &TimeoutError{Elapsed: elapsed, Limit: e.timeout, NextNode: current}
				break
			}
		}

		node, ok := g.Node(current)
		if !ok {
			runErr = fmt.Errorf("%w: %q", ErrNodeMissing, current)
			break
		}

		lastNode = current

		nodeCtx := ec.withNodeID(current)
		observability.LogNodeStart(e.logger, current, e.iterations)
		e.log = append(e.log, LogEntry{
			Node:      current,
			Status:    StatusStarted,
			Timestamp: time.Now().UTC(),
			Iteration: e.iterations,
		})

		spanCtx, nodeSpan := e.spans.StartNodeSpan(nodeCtx, current, e.iterations)
		nodeStart := time.Now()
		state = e.runNode(nodeCtx, node, current, state)
		duration := time.Since(nodeStart)
		failed := state.HasErrors()

		e.metrics.RecordNodeExecution(spanCtx, current, duration, failed)

		if failed {
			errText := strings.Join(state.Errors, "; ")
			e.log = append(e.log, LogEntry{
				Node:      current,
				Status:    StatusFailed,
				Timestamp: time.Now().UTC(),
				Iteration: e.iterations,
				Duration:  duration,
				Error:     errText,
			})
			observability.LogNodeFailed(e.logger, current, errText)
			e.spans.EndSpanWithError(nodeSpan, errors.New(errText))
			break
		}

		e.log = append(e.log, LogEntry{
			Node:      current,
			Status:    StatusCompleted,
			Timestamp: time.Now().UTC(),
			Iteration: e.iterations,
			Duration:  duration,
		})
		observability.LogNodeComplete(e.logger, current, float64(duration.Milliseconds()))
		e.spans.EndSpanWithError(nodeSpan, nil)

		next, routed := g.Edges().NextNode(nodeCtx, current, state)
		e.metrics.RecordEdgeEvaluation(spanCtx, current, routed)
		if routed {
			observability.LogRouteDecision(e.logger, current, next)
		} else {
			observability.LogRunEnd(e.logger, current)
		}

		// A failed iteration is not counted, so a node that fails on
		// the run's final permitted step stays a content failure.
		e.iterations++
		state = state.IncrementIteration()
		current = next
	}

	// The ceiling is checked after the loop so a run that ends on its
	// final permitted iteration still counts as exceeding it.
	if runErr == nil && e.iterations >= e.maxIterations {
		runErr = &MaxIterationsError{Max: e.maxIterations, LastNode: lastNode}
	}

	elapsed := time.Since(start)
	success := runErr == nil && !state.HasErrors()
	e.metrics.RecordGraphRun(runCtx, success, elapsed)
	e.spans.EndSpanWithError(runSpan, runErr)

	if runErr != nil {
		observability.LogRunError(e.logger, runID, runErr, float64(elapsed.Milliseconds()), lastNode)
	} else {
		observability.LogRunComplete(e.logger, runID, float64(elapsed.Milliseconds()), e.iterations)
	}

	e.saveHistory(g, state, runID, startedAt, runErr)

	return state, runErr
}

// ExecutionLog returns a copy of the most recent run's log.
func (e *Engine) ExecutionLog() []LogEntry {
	return append([]LogEntry(nil), e.log...)
}

// Iterations returns the iteration count of the most recent run.
func (e *Engine) Iterations() int { return e.iterations }

// Summary aggregates the most recent run's log.
func (e *Engine) Summary() Summary {
	return summarize(e.log, e.iterations)
}

// runNode dispatches one node. The built-in variants absorb their own
// panics, but Node is an open interface; a panic escaping a foreign
// implementation is converted into a content error here so the run
// still ends with a terminal log entry.
func (e *Engine) runNode(ctx Context, node Node, name string, s State) (out State) {
	defer func() {
		if r := recover(); r != nil {
			out = s.AddError(fmt.Sprintf("Node '%s' failed: %v", name, r))
		}
	}()
	return node.Execute(ctx, s)
}

// normalizeContext folds engine-level logger and tools into the
// execution context when the caller did not set them there.
func (e *Engine) normalizeContext(ctx Context) *executionContext {
	ec := asExecutionContext(ctx)
	if e.logger == nil && e.tools == nil {
		return ec
	}
	out := *ec
	if e.logger != nil {
		out.logger = e.logger
	}
	if out.tools == nil {
		out.tools = e.tools
	}
	return &out
}

// saveHistory persists the run record. Failures are logged, never fatal.
func (e *Engine) saveHistory(g *Graph, final State, runID string, startedAt time.Time, runErr error) {
	if e.history == nil {
		return
	}

	rec := history.Record{
		RunID:       runID,
		Graph:       g.Name,
		Status:      history.StatusCompleted,
		StartedAt:   startedAt,
		CompletedAt: time.Now().UTC(),
	}
	if runErr != nil {
		rec.Status = history.StatusFailed
		rec.Error = runErr.Error()
	} else if final.HasErrors() {
		rec.Status = history.StatusFailed
		rec.Error = strings.Join(final.Errors, "; ")
	}

	if data, err := final.ToJSON(); err == nil {
		rec.FinalState = data
	} else {
		observability.LogHistoryError(e.logger, runID, err)
	}

	rec.Entries = make([]history.Entry, len(e.log))
	for i, le := range e.log {
		rec.Entries[i] = history.Entry{
			Node:      le.Node,
			Status:    string(le.Status),
			Timestamp: le.Timestamp,
			Iteration: le.Iteration,
			Duration:  le.Duration,
			Error:     le.Error,
		}
	}

	if err := e.history.SaveRun(rec); err != nil {
		observability.LogHistoryError(e.logger, runID, err)
	}
}
