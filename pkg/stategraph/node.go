package stategraph

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/stategraph/pkg/stategraph/pool"
)

// NodeFunc is the signature for context-aware work functions. The state
// parameter is passed by value; implementations return a new state rather
// than mutating shared storage.
type NodeFunc func(ctx Context, s State) (State, error)

// BlockingFunc is the signature for ordinary blocking work functions.
// They receive no context and are executed on a bounded worker pool so
// a blocking call in one run cannot stall others in the same process.
type BlockingFunc func(s State) (State, error)

// Node is an executable unit of work in a graph. Implementations differ
// only in how the wrapped function is scheduled; the engine never
// branches on the concrete type.
//
// Execute never propagates a failure: an error or panic from the wrapped
// function is converted into an error entry on the returned state of the
// form "Node '<name>' failed: <message>".
type Node interface {
	// Name returns the node's unique name within its graph.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Metadata returns the node's descriptive metadata map.
	Metadata() map[string]any

	// Execute runs the wrapped function against the given state.
	Execute(ctx Context, s State) State

	// Stats returns execution statistics accumulated across runs.
	Stats() NodeStats
}

// NodeStats reports attempted work: counters update on success and
// failure alike.
type NodeStats struct {
	Name           string        `json:"name"`
	ExecutionCount int64         `json:"execution_count"`
	TotalDuration  time.Duration `json:"total_duration"`
}

// AvgDuration returns the mean execution time, or zero before any run.
func (s NodeStats) AvgDuration() time.Duration {
	if s.ExecutionCount == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.ExecutionCount)
}

// nodeConfig collects constructor options shared by all variants.
type nodeConfig struct {
	description string
	metadata    map[string]any
	pool        *pool.Pool
}

// NodeOption configures a node at construction time.
type NodeOption func(*nodeConfig)

// WithDescription sets the node's description.
func WithDescription(description string) NodeOption {
	return func(c *nodeConfig) {
		c.description = description
	}
}

// WithMetadata sets a metadata key on the node.
func WithMetadata(key string, value any) NodeOption {
	return func(c *nodeConfig) {
		c.metadata[key] = value
	}
}

// WithPool assigns the worker pool a BlockingNode submits its work to.
// Other variants ignore it.
func WithPool(p *pool.Pool) NodeOption {
	return func(c *nodeConfig) {
		c.pool = p
	}
}

// baseNode carries the identity, metadata, and counters shared by all
// node variants. Counters are atomic because a graph may be shared by
// concurrent runs.
type baseNode struct {
	name        string
	description string
	metadata    map[string]any

	executions atomic.Int64
	totalNanos atomic.Int64
}

func (b *baseNode) Name() string             { return b.name }
func (b *baseNode) Description() string      { return b.description }
func (b *baseNode) Metadata() map[string]any { return b.metadata }

func (b *baseNode) Stats() NodeStats {
	return NodeStats{
		Name:           b.name,
		ExecutionCount: b.executions.Load(),
		TotalDuration:  time.Duration(b.totalNanos.Load()),
	}
}

// record accumulates stats for one attempt.
func (b *baseNode) record(start time.Time) {
	b.executions.Add(1)
	b.totalNanos.Add(int64(time.Since(start)))
}

// fail converts a wrapped-function failure into state data.
func (b *baseNode) fail(s State, cause any) State {
	return s.AddError(fmt.Sprintf("Node '%s' failed: %v", b.name, cause))
}

func newNodeConfig(name string, opts []NodeOption) (*baseNode, *nodeConfig) {
	// Builder misuse panics; everything else is an error value.
	if name == "" {
		panic("stategraph: node name cannot be empty")
	}
	cfg := &nodeConfig{metadata: map[string]any{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return &baseNode{
		name:        name,
		description: cfg.description,
		metadata:    cfg.metadata,
	}, cfg
}

// FuncNode wraps a context-aware function and calls it directly on the
// run's goroutine. The function may block on its context (awaiting I/O,
// timers, or cancellation) without affecting unrelated runs.
type FuncNode struct {
	*baseNode
	fn NodeFunc
}

// NewFuncNode creates a node around a context-aware function.
// Panics if fn is nil.
func NewFuncNode(name string, fn NodeFunc, opts ...NodeOption) *FuncNode {
	if fn == nil {
		panic("stategraph: node function cannot be nil")
	}
	base, _ := newNodeConfig(name, opts)
	return &FuncNode{baseNode: base, fn: fn}
}

// Execute implements Node.
func (n *FuncNode) Execute(ctx Context, s State) (result State) {
	start := time.Now()
	defer n.record(start)
	defer func() {
		if r := recover(); r != nil {
			result = n.fail(s, r)
		}
	}()

	out, err := n.fn(ctx, s)
	if err != nil {
		return n.fail(s, err)
	}
	return out
}

// defaultPool bounds blocking work for nodes constructed without an
// explicit pool.
var (
	defaultPool     *pool.Pool
	defaultPoolOnce sync.Once
)

func sharedPool() *pool.Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = pool.New(8)
	})
	return defaultPool
}

// BlockingNode wraps an ordinary blocking function. The function runs on
// a bounded worker pool off the run's goroutine; the node waits for the
// result or for context cancellation.
type BlockingNode struct {
	*baseNode
	fn   BlockingFunc
	pool *pool.Pool
}

// NewBlockingNode creates a node around a blocking function.
// Panics if fn is nil. Without WithPool a process-wide default pool of
// eight workers is used.
func NewBlockingNode(name string, fn BlockingFunc, opts ...NodeOption) *BlockingNode {
	if fn == nil {
		panic("stategraph: node function cannot be nil")
	}
	base, cfg := newNodeConfig(name, opts)
	p := cfg.pool
	if p == nil {
		p = sharedPool()
	}
	return &BlockingNode{baseNode: base, fn: fn, pool: p}
}

// Execute implements Node.
func (n *BlockingNode) Execute(ctx Context, s State) (result State) {
	start := time.Now()
	defer n.record(start)
	defer func() {
		if r := recover(); r != nil {
			result = n.fail(s, r)
		}
	}()

	var (
		out State
		err error
	)
	poolErr := n.pool.Do(ctx, func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%v", r)
			}
		}()
		out, err = n.fn(s)
	})
	if poolErr != nil {
		return n.fail(s, poolErr)
	}
	if err != nil {
		return n.fail(s, err)
	}
	return out
}

// TransformNode applies a small state transformation inline. It is the
// ad hoc variant for anonymous transforms; panics are still absorbed
// into the state's error list.
type TransformNode struct {
	*baseNode
	transform func(State) State
}

// NewTransformNode creates a node around a pure transformation.
// Panics if transform is nil.
func NewTransformNode(name string, transform func(State) State, opts ...NodeOption) *TransformNode {
	if transform == nil {
		panic("stategraph: node function cannot be nil")
	}
	base, _ := newNodeConfig(name, opts)
	return &TransformNode{baseNode: base, transform: transform}
}

// Execute implements Node.
func (n *TransformNode) Execute(ctx Context, s State) (result State) {
	start := time.Now()
	defer n.record(start)
	defer func() {
		if r := recover(); r != nil {
			result = n.fail(s, r)
		}
	}()

	return n.transform(s)
}
