package stategraph

import (
	"sync/atomic"
)

// Predicate guards an edge. It may block on its context; an error return
// means "do not traverse".
type Predicate func(ctx Context, s State) (bool, error)

// Edge is a directed, optionally guarded transition between two named
// nodes. Unconditional edges (nil predicate) always traverse and never
// touch the traversal counter.
type Edge struct {
	// From is the source node name.
	From string

	// To is the destination node name.
	To string

	// Description is a human-readable summary of the transition.
	Description string

	predicate  Predicate
	traversals atomic.Int64
}

// NewEdge creates an edge. A nil predicate makes it unconditional.
func NewEdge(from, to string, predicate Predicate, description string) *Edge {
	return &Edge{From: from, To: to, Description: description, predicate: predicate}
}

// Conditional reports whether the edge carries a predicate.
func (e *Edge) Conditional() bool {
	return e.predicate != nil
}

// Traversals returns how many times a present predicate evaluated true.
func (e *Edge) Traversals() int64 {
	return e.traversals.Load()
}

// ShouldTraverse reports whether the edge should be followed for the
// given state.
//
// An absent predicate always traverses. A predicate error or panic is
// swallowed and treated as "do not traverse": routing favors run
// progress and termination over exact routing correctness, so predicate
// failures must never propagate. The traversal counter increments only
// when a present predicate evaluates true.
func (e *Edge) ShouldTraverse(ctx Context, s State) (traverse bool) {
	if e.predicate == nil {
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			ctx.Logger().Warn("edge predicate panicked",
				"from", e.From, "to", e.To, "panic", r)
			traverse = false
		}
	}()

	ok, err := e.predicate(ctx, s)
	if err != nil {
		ctx.Logger().Warn("edge predicate failed",
			"from", e.From, "to", e.To, "error", err.Error())
		return false
	}
	if ok {
		e.traversals.Add(1)
	}
	return ok
}

// EdgeManager owns all edges of a graph and resolves "what's next". It
// keeps an index from node name to outgoing edges in insertion order.
type EdgeManager struct {
	edges    []*Edge
	outgoing map[string][]*Edge
}

// NewEdgeManager creates an empty edge manager.
func NewEdgeManager() *EdgeManager {
	return &EdgeManager{outgoing: make(map[string][]*Edge)}
}

// AddEdge creates and indexes an edge.
func (m *EdgeManager) AddEdge(from, to string, predicate Predicate, description string) *Edge {
	e := NewEdge(from, to, predicate, description)
	m.edges = append(m.edges, e)
	m.outgoing[from] = append(m.outgoing[from], e)
	return e
}

// Outgoing returns the outgoing edges of a node in insertion order.
func (m *EdgeManager) Outgoing(node string) []*Edge {
	return m.outgoing[node]
}

// HasOutgoing reports whether the node has any outgoing edges.
func (m *EdgeManager) HasOutgoing(node string) bool {
	return len(m.outgoing[node]) > 0
}

// Edges returns a copy of all edges in insertion order.
func (m *EdgeManager) Edges() []*Edge {
	return append([]*Edge(nil), m.edges...)
}

// NextNode resolves the next node after current for the given state.
//
// Outgoing edges are examined in insertion order and the first passing
// edge wins. The second return is false when current has no outgoing
// edges (a true dead end) or when none of its predicates pass (a fully
// declined branch); both end the run identically.
func (m *EdgeManager) NextNode(ctx Context, current string, s State) (string, bool) {
	for _, e := range m.outgoing[current] {
		if e.ShouldTraverse(ctx, s) {
			return e.To, true
		}
	}
	return "", false
}
