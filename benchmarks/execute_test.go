package benchmarks

import (
	"context"
	"testing"

	"github.com/randalmurphal/stategraph/pkg/stategraph"
)

// BenchmarkExecute_Linear_5 runs a 5-node linear graph.
func BenchmarkExecute_Linear_5(b *testing.B) {
	benchmarkLinear(b, 5)
}

// BenchmarkExecute_Linear_10 runs a 10-node linear graph.
func BenchmarkExecute_Linear_10(b *testing.B) {
	benchmarkLinear(b, 10)
}

// BenchmarkExecute_Linear_50 runs a 50-node linear graph.
func BenchmarkExecute_Linear_50(b *testing.B) {
	benchmarkLinear(b, 50)
}

// BenchmarkExecute_Linear_100 runs a 100-node linear graph.
func BenchmarkExecute_Linear_100(b *testing.B) {
	benchmarkLinear(b, 100)
}

func benchmarkLinear(b *testing.B, n int) {
	g := buildLinearGraph(b, n)
	engine := stategraph.NewEngine(stategraph.WithMaxIterations(n + 1))
	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Execute(ctx, g, stategraph.NewState("bench")); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkExecute_Branching runs a graph with conditional edges.
func BenchmarkExecute_Branching(b *testing.B) {
	g := buildBranchingGraph(b)
	engine := stategraph.NewEngine()
	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		initial := stategraph.NewState("bench").SetData("value", i)
		if _, err := engine.Execute(ctx, g, initial); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkExecute_Loop_3 runs a looping graph for 3 round trips.
func BenchmarkExecute_Loop_3(b *testing.B) {
	benchmarkLoop(b, 3)
}

// BenchmarkExecute_Loop_10 runs a looping graph for 10 round trips.
func BenchmarkExecute_Loop_10(b *testing.B) {
	benchmarkLoop(b, 10)
}

func benchmarkLoop(b *testing.B, rounds int) {
	g := buildLoopGraph(b, rounds)
	engine := stategraph.NewEngine(stategraph.WithMaxIterations(2*rounds + 2))
	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Execute(ctx, g, stategraph.NewState("bench")); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkExecute_WithLogEntries measures the per-node log overhead on
// a 10-node graph including Summary generation.
func BenchmarkExecute_WithLogEntries(b *testing.B) {
	g := buildLinearGraph(b, 10)
	engine := stategraph.NewEngine(stategraph.WithMaxIterations(11))
	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Execute(ctx, g, stategraph.NewState("bench")); err != nil {
			b.Fatal(err)
		}
		_ = engine.Summary()
	}
}

// BenchmarkNewContext measures context creation overhead.
func BenchmarkNewContext(b *testing.B) {
	bg := context.Background()
	for i := 0; i < b.N; i++ {
		stategraph.NewContext(bg)
	}
}

// BenchmarkState_SetData measures copy-on-write cost at 10 keys.
func BenchmarkState_SetData(b *testing.B) {
	s := stategraph.NewState("bench")
	for i := 0; i < 10; i++ {
		s = s.SetData(nodeID(i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.SetData("key", i)
	}
}

// buildLoopGraph alternates between two nodes until counter reaches the
// requested number of round trips.
func buildLoopGraph(b *testing.B, rounds int) *stategraph.Graph {
	step := func(_ stategraph.Context, s stategraph.State) (stategraph.State, error) {
		return s.SetData("counter", s.GetData("counter", 0).(int)+1), nil
	}

	g, err := stategraph.NewBuilder("loop", "").
		Func("loop", step).
		Func("back", noopNode).
		Func("done", noopNode).
		ConditionalEdge("loop", "back", stategraph.DataLessThan("counter", float64(rounds))).
		ConditionalEdge("loop", "done", nil).
		Edge("back", "loop").
		Entry("loop").
		Build()
	if err != nil {
		b.Fatal(err)
	}
	return g
}
