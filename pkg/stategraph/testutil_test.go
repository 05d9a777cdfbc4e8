package stategraph

import (
	"context"
	"errors"
)

// Helper node functions used across tests

// incrementCount bumps the "count" data key by one.
func incrementCount(ctx Context, s State) (State, error) {
	count := s.GetData("count", 0).(int)
	return s.SetData("count", count+1), nil
}

// passthrough returns the state unchanged.
func passthrough(ctx Context, s State) (State, error) {
	return s, nil
}

// makeTrackingNode records its execution order in tracker.
func makeTrackingNode(name string, tracker *[]string) NodeFunc {
	return func(ctx Context, s State) (State, error) {
		*tracker = append(*tracker, name)
		return s.SetData(name, true), nil
	}
}

// makeFailingNode returns the given error from every execution.
func makeFailingNode(err error) NodeFunc {
	return func(ctx Context, s State) (State, error) {
		return s, err
	}
}

// makePanicNode panics with the given value.
func makePanicNode(value any) NodeFunc {
	return func(ctx Context, s State) (State, error) {
		panic(value)
	}
}

var errBoom = errors.New("boom")

// testCtx creates a simple test context.
func testCtx() Context {
	return NewContext(context.Background())
}

// linearGraph builds a -> b with tracking nodes.
func linearGraph(tracker *[]string) *Graph {
	g := NewGraph("linear", "two step pipeline")
	_ = g.AddNode("a", NewFuncNode("a", makeTrackingNode("a", tracker)))
	_ = g.AddNode("b", NewFuncNode("b", makeTrackingNode("b", tracker)))
	_ = g.AddEdge("a", "b", nil)
	_ = g.SetEntryPoint("a")
	return g
}
