package stategraph

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context provides execution context to nodes and edge predicates.
// It extends context.Context with engine services and run metadata.
//
// Context is immutable after creation. The engine derives a new context
// per node with the node ID set and the logger enriched.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with run and node
	// context during execution. Never nil; defaults to slog.Default().
	Logger() *slog.Logger

	// Tools returns the injected tool registry, or nil if none was
	// configured. Nodes should check for nil before using it.
	Tools() *ToolRegistry

	// RunID returns the unique identifier for this execution run.
	// Auto-generated if not configured.
	RunID() string

	// NodeID returns the node currently being executed.
	// Empty before execution starts.
	NodeID() string
}

// executionContext is the internal implementation of Context.
type executionContext struct {
	context.Context

	logger *slog.Logger
	tools  *ToolRegistry
	runID  string
	nodeID string
}

func (c *executionContext) Logger() *slog.Logger { return c.logger }
func (c *executionContext) Tools() *ToolRegistry { return c.tools }
func (c *executionContext) RunID() string        { return c.runID }
func (c *executionContext) NodeID() string       { return c.nodeID }

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithContextLogger sets the logger carried by the context.
func WithContextLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		c.logger = logger
	}
}

// WithTools injects the tool registry nodes may resolve work functions from.
func WithTools(tools *ToolRegistry) ContextOption {
	return func(c *executionContext) {
		c.tools = tools
	}
}

// WithContextRunID sets the run identifier. If not set, a UUID is
// auto-generated.
func WithContextRunID(id string) ContextOption {
	return func(c *executionContext) {
		c.runID = id
	}
}

// NewContext creates an execution context from a standard context.
//
// Example:
//
//	ctx := stategraph.NewContext(context.Background(),
//	    stategraph.WithContextLogger(myLogger),
//	    stategraph.WithTools(tools))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.New().String(),
	}
	for _, opt := range opts {
		opt(ec)
	}
	return ec
}

// withParent returns a derived context with a replacement underlying
// context.Context, used to thread the run span through node executions.
func (c *executionContext) withParent(parent context.Context) *executionContext {
	out := *c
	out.Context = parent
	return &out
}

// withNodeID returns a derived context with the node ID set and the
// logger enriched for per-node logging.
func (c *executionContext) withNodeID(nodeID string) *executionContext {
	return &executionContext{
		Context: c.Context,
		logger:  c.logger.With("run_id", c.runID, "node_id", nodeID),
		tools:   c.tools,
		runID:   c.runID,
		nodeID:  nodeID,
	}
}

// asExecutionContext normalizes any Context to the internal type so the
// engine can derive per-node contexts from caller-supplied implementations.
func asExecutionContext(ctx Context) *executionContext {
	if ec, ok := ctx.(*executionContext); ok {
		return ec
	}
	return &executionContext{
		Context: ctx,
		logger:  ctx.Logger(),
		tools:   ctx.Tools(),
		runID:   ctx.RunID(),
		nodeID:  ctx.NodeID(),
	}
}
