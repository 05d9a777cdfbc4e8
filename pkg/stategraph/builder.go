package stategraph

import (
	"errors"
	"fmt"
)

// GraphBuilder assembles a Graph through fluent chaining. Errors from
// individual steps are accumulated and reported by Build, so a chain
// never has to break for error handling:
//
//	g, err := stategraph.NewBuilder("review", "code review flow").
//	    Node("fetch", fetchNode).
//	    Node("score", scoreNode).
//	    Edge("fetch", "score").
//	    Entry("fetch").
//	    Build()
type GraphBuilder struct {
	graph *Graph
	errs  []error
}

// NewBuilder creates a builder for a named graph.
func NewBuilder(name, description string) *GraphBuilder {
	return &GraphBuilder{graph: NewGraph(name, description)}
}

// Node adds a node. Returns the builder for chaining.
func (b *GraphBuilder) Node(name string, n Node) *GraphBuilder {
	if err := b.graph.AddNode(name, n); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Func adds a FuncNode wrapping fn under the given name.
func (b *GraphBuilder) Func(name string, fn NodeFunc, opts ...NodeOption) *GraphBuilder {
	return b.Node(name, NewFuncNode(name, fn, opts...))
}

// Blocking adds a BlockingNode wrapping fn under the given name.
func (b *GraphBuilder) Blocking(name string, fn BlockingFunc, opts ...NodeOption) *GraphBuilder {
	return b.Node(name, NewBlockingNode(name, fn, opts...))
}

// Transform adds a TransformNode wrapping fn under the given name.
func (b *GraphBuilder) Transform(name string, fn func(State) State, opts ...NodeOption) *GraphBuilder {
	return b.Node(name, NewTransformNode(name, fn, opts...))
}

// Edge adds an unconditional edge. Returns the builder for chaining.
func (b *GraphBuilder) Edge(from, to string) *GraphBuilder {
	return b.ConditionalEdge(from, to, nil)
}

// ConditionalEdge adds a guarded edge. Returns the builder for chaining.
func (b *GraphBuilder) ConditionalEdge(from, to string, predicate Predicate) *GraphBuilder {
	if err := b.graph.AddEdge(from, to, predicate); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Router installs every edge of a ConditionalRouter.
func (b *GraphBuilder) Router(r *ConditionalRouter) *GraphBuilder {
	if err := b.graph.AddRouter(r); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Entry sets the entry point. Returns the builder for chaining.
func (b *GraphBuilder) Entry(name string) *GraphBuilder {
	if err := b.graph.SetEntryPoint(name); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Metadata sets a metadata key on the graph.
func (b *GraphBuilder) Metadata(key string, value any) *GraphBuilder {
	b.graph.Metadata[key] = value
	return b
}

// Build validates and returns the graph. Accumulated step errors and
// validation violations are joined into one error.
func (b *GraphBuilder) Build() (*Graph, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("build graph %q: %w", b.graph.Name, errors.Join(b.errs...))
	}
	if err := b.graph.Validate(); err != nil {
		return nil, fmt.Errorf("build graph %q: %w", b.graph.Name, err)
	}
	return b.graph, nil
}

// BuildUnsafe returns the graph without validation. Intended for tests
// and tooling that construct deliberately invalid graphs; step errors
// are still silently dropped, so the result may be incomplete.
func (b *GraphBuilder) BuildUnsafe() *Graph {
	return b.graph
}
