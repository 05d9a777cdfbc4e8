package benchmarks

import (
	"testing"

	"github.com/randalmurphal/stategraph/pkg/stategraph"
)

// noopNode does minimal work to measure framework overhead.
func noopNode(ctx stategraph.Context, s stategraph.State) (stategraph.State, error) {
	return s, nil
}

// BenchmarkNewBuilder measures builder creation overhead.
func BenchmarkNewBuilder(b *testing.B) {
	for i := 0; i < b.N; i++ {
		stategraph.NewBuilder("bench", "")
	}
}

// BenchmarkBuilder_Func measures node addition overhead.
func BenchmarkBuilder_Func(b *testing.B) {
	for i := 0; i < b.N; i++ {
		stategraph.NewBuilder("bench", "").Func("node", noopNode)
	}
}

// BenchmarkBuilder_Func_10 measures adding 10 nodes.
func BenchmarkBuilder_Func_10(b *testing.B) {
	for i := 0; i < b.N; i++ {
		builder := stategraph.NewBuilder("bench", "")
		for j := 0; j < 10; j++ {
			builder.Func(nodeID(j), noopNode)
		}
	}
}

// BenchmarkBuilder_Func_100 measures adding 100 nodes.
func BenchmarkBuilder_Func_100(b *testing.B) {
	for i := 0; i < b.N; i++ {
		builder := stategraph.NewBuilder("bench", "")
		for j := 0; j < 100; j++ {
			builder.Func(nodeID(j), noopNode)
		}
	}
}

// BenchmarkValidate_Linear_5 validates a 5-node linear graph.
func BenchmarkValidate_Linear_5(b *testing.B) {
	g := buildLinearGraph(b, 5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Validate()
	}
}

// BenchmarkValidate_Linear_10 validates a 10-node linear graph.
func BenchmarkValidate_Linear_10(b *testing.B) {
	g := buildLinearGraph(b, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Validate()
	}
}

// BenchmarkValidate_Linear_50 validates a 50-node linear graph.
func BenchmarkValidate_Linear_50(b *testing.B) {
	g := buildLinearGraph(b, 50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Validate()
	}
}

// BenchmarkValidate_Linear_100 validates a 100-node linear graph.
func BenchmarkValidate_Linear_100(b *testing.B) {
	g := buildLinearGraph(b, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Validate()
	}
}

// BenchmarkValidate_Branching validates a graph with conditional edges.
func BenchmarkValidate_Branching(b *testing.B) {
	g := buildBranchingGraph(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Validate()
	}
}

// BenchmarkFindCycles_Loop finds cycles in a two-node loop.
func BenchmarkFindCycles_Loop(b *testing.B) {
	g := buildLoopGraph(b, 3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.FindCycles()
	}
}

// Helper functions

func nodeID(n int) string {
	return string(rune('a'+n%26)) + string(rune('0'+n/26%10))
}

func buildLinearGraph(b *testing.B, n int) *stategraph.Graph {
	builder := stategraph.NewBuilder("linear", "")
	for i := 0; i < n; i++ {
		builder.Func(nodeID(i), noopNode)
	}
	for i := 0; i < n-1; i++ {
		builder.Edge(nodeID(i), nodeID(i+1))
	}
	builder.Entry(nodeID(0))
	g, err := builder.Build()
	if err != nil {
		b.Fatal(err)
	}
	return g
}

func buildBranchingGraph(b *testing.B) *stategraph.Graph {
	even := func(_ stategraph.Context, s stategraph.State) (bool, error) {
		return s.GetData("value", 0).(int)%2 == 0, nil
	}

	g, err := stategraph.NewBuilder("branching", "").
		Func("start", noopNode).
		Func("even", noopNode).
		Func("odd", noopNode).
		Func("merge", noopNode).
		ConditionalEdge("start", "even", even).
		ConditionalEdge("start", "odd", nil).
		Edge("even", "merge").
		Edge("odd", "merge").
		Entry("start").
		Build()
	if err != nil {
		b.Fatal(err)
	}
	return g
}
