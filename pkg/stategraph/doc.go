/*
Package stategraph provides graph-based workflow execution over
immutable state.

# Overview

stategraph is a Go library for building and executing directed graphs
where nodes perform work and conditional edges route the flow. State is
an immutable value: every node and every mutator returns a new State,
so no step can corrupt another's view of the run.

The library favors explicit mechanics over magic:
  - First-match edge routing in insertion order
  - Structural validation before every run
  - A strict iteration ceiling and an optional between-node timeout
  - OpenTelemetry integration for observability

# Basic Usage

Build a graph, validate it through Build, and hand it to an engine:

	double := func(ctx stategraph.Context, s stategraph.State) (stategraph.State, error) {
	    n := s.GetData("n", 0.0).(float64)
	    return s.SetData("n", n*2), nil
	}

	g, err := stategraph.NewBuilder("doubler", "doubles a number").
	    Func("double", double).
	    Entry("double").
	    Build()
	if err != nil {
	    log.Fatal(err)
	}

	engine := stategraph.NewEngine()
	ctx := stategraph.NewContext(context.Background())
	final, err := engine.Execute(ctx, g, stategraph.NewState("doubler").SetData("n", 21.0))

A run ends when the current node has no edge whose predicate passes.
There is no explicit end marker; a node without outgoing edges is an
end node.

# Error Model

Failures travel on two separate channels. Engine and configuration
failures (invalid graph, iteration ceiling, timeout) come back as Go
errors from Execute. Content failures stay inside the state: whenever a
node's resulting state carries errors the run stops, and Execute returns
the errored state with a nil error. Check State.HasErrors on every
result. A failed step does not count toward the iteration ceiling.

# Conditional Branching

Guard edges with predicates; the first passing edge in insertion order
wins:

	g.AddEdge("score", "publish", stategraph.DataGreaterThan("score", 0.8))
	g.AddEdge("score", "revise", nil) // fallback

A predicate that returns an error or panics declines its edge; it never
aborts the run. For routing where falling through is a bug, use
ConditionalRouter, which returns *NoRouteError when nothing matches and
no default is set.

# Loops

Cycles through two or more nodes are legal and bounded by the engine's
iteration ceiling (default 100, configure with WithMaxIterations).
Self-loops are rejected at validation; loop by cycling through a second
node instead.

	g, _ := stategraph.NewBuilder("retry", "retry until done").
	    Func("attempt", attempt).
	    Func("check", check).
	    Edge("attempt", "check").
	    ConditionalEdge("check", "attempt", stategraph.DataEquals("done", false)).
	    Entry("attempt").
	    Build()

# Declarative Definitions

The definition package loads workflow shape from YAML or JSON, with
nodes resolved against a ToolRegistry and edge conditions written in
the expr language:

	tools := stategraph.NewToolRegistry()
	stategraph.RegisterTool(tools, "fetch_diff", fetchDiff, "fetches the diff")

	def, _ := definition.FromFile("review.yaml")
	g, _ := definition.Build(def, tools)

# Observability

Structured logging uses slog; metrics and tracing use OpenTelemetry and
are opt-in per engine:

	engine := stategraph.NewEngine(
	    stategraph.WithLogger(logger),
	    stategraph.WithMetrics(),
	    stategraph.WithTracing())

The history package persists finished runs (final state plus the
execution log) to memory or SQLite:

	store, _ := history.NewSQLiteStore("./runs.db")
	defer store.Close()
	engine := stategraph.NewEngine(stategraph.WithHistory(store))
*/
package stategraph
