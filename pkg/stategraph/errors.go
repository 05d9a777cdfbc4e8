package stategraph

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for graph construction and validation.
var (
	// ErrDuplicateNode indicates AddNode was called with an existing name.
	ErrDuplicateNode = errors.New("node already exists")

	// ErrUnknownNode indicates an edge or entry point references a
	// node that is not in the graph.
	ErrUnknownNode = errors.New("node not found")

	// ErrNoEntryPoint indicates validation ran before SetEntryPoint.
	ErrNoEntryPoint = errors.New("entry point not set")

	// ErrNoNodes indicates the graph is empty.
	ErrNoNodes = errors.New("graph has no nodes")

	// ErrUnreachableNode indicates a node cannot be reached from the
	// entry point by following edges structurally.
	ErrUnreachableNode = errors.New("node unreachable from entry point")

	// ErrSelfLoop indicates an edge whose source equals its destination.
	// Self-loops are always rejected; loop by cycling through a second
	// node instead.
	ErrSelfLoop = errors.New("self-loop edge")
)

// Sentinel errors for execution.
var (
	// ErrNilContext indicates Execute was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrMaxIterations indicates the run loop hit its iteration ceiling.
	ErrMaxIterations = errors.New("exceeded maximum iterations")

	// ErrTimeout indicates the run exceeded its wall-clock limit.
	ErrTimeout = errors.New("workflow timeout exceeded")

	// ErrNodeMissing indicates the run loop resolved a node name that
	// the graph does not contain, an engine/graph mismatch.
	ErrNodeMissing = errors.New("node missing from graph")

	// ErrNoRoute indicates a ConditionalRouter matched nothing and had
	// no default.
	ErrNoRoute = errors.New("no matching route")
)

// ValidationError wraps structural graph violations surfaced through
// Engine.Execute, so callers can tell configuration failures apart from
// engine-policy failures.
type ValidationError struct {
	// Graph is the name of the offending graph.
	Graph string
	// Err is the underlying validation failure, possibly joined.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid graph %q: %v", e.Graph, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// MaxIterationsError reports an iteration-ceiling abort with context.
type MaxIterationsError struct {
	// Max is the configured iteration ceiling.
	Max int
	// LastNode is the node that executed last.
	LastNode string
}

// Error implements the error interface.
func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("max iterations (%d) exceeded at node %s", e.Max, e.LastNode)
}

// Unwrap returns ErrMaxIterations for errors.Is support.
func (e *MaxIterationsError) Unwrap() error {
	return ErrMaxIterations
}

// TimeoutError reports a wall-clock abort. Timeouts are only checked
// between node executions, never preemptively inside one.
type TimeoutError struct {
	// Elapsed is the run time when the check fired.
	Elapsed time.Duration
	// Limit is the configured timeout.
	Limit time.Duration
	// NextNode is the node that would have executed next.
	NextNode string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("workflow timeout exceeded: %v > %v (before node %s)",
		e.Elapsed.Round(time.Millisecond), e.Limit, e.NextNode)
}

// Unwrap returns ErrTimeout for errors.Is support.
func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// NoRouteError reports a ConditionalRouter fallthrough: no predicate
// matched and no default route was configured.
type NoRouteError struct {
	// FromNode is the node the router routes out of.
	FromNode string
}

// Error implements the error interface.
func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no matching route from node '%s' and no default route set", e.FromNode)
}

// Unwrap returns ErrNoRoute for errors.Is support.
func (e *NoRouteError) Unwrap() error {
	return ErrNoRoute
}

// UnreachableNodesError names every node outside the reachable set.
type UnreachableNodesError struct {
	// Nodes lists the unreachable node names, sorted.
	Nodes []string
}

// Error implements the error interface.
func (e *UnreachableNodesError) Error() string {
	return fmt.Sprintf("unreachable nodes from entry point: %s", strings.Join(e.Nodes, ", "))
}

// Unwrap returns ErrUnreachableNode for errors.Is support.
func (e *UnreachableNodesError) Unwrap() error {
	return ErrUnreachableNode
}
