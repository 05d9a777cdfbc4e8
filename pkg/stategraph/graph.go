package stategraph

import (
	"errors"
	"fmt"
	"sort"
)

// Graph owns a workflow's node set and edges. Build it directly or
// through GraphBuilder, validate it, then hand it to an Engine.
//
// Graph is not safe for concurrent mutation. Construct it on one
// goroutine; once validated it is only read by the engine, so multiple
// runs may share it.
type Graph struct {
	// Name identifies the workflow definition.
	Name string

	// Description is a human-readable summary.
	Description string

	// Metadata holds arbitrary descriptive fields.
	Metadata map[string]any

	nodes      map[string]Node
	edges      *EdgeManager
	entryPoint string
}

// NewGraph creates an empty graph.
func NewGraph(name, description string) *Graph {
	return &Graph{
		Name:        name,
		Description: description,
		Metadata:    map[string]any{},
		nodes:       make(map[string]Node),
		edges:       NewEdgeManager(),
	}
}

// AddNode adds a node under the given name.
// Fails on duplicates; names are never silently overwritten.
func (g *Graph) AddNode(name string, n Node) error {
	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	g.nodes[name] = n
	return nil
}

// AddEdge connects two existing nodes. A nil predicate makes the edge
// unconditional.
func (g *Graph) AddEdge(from, to string, predicate Predicate) error {
	return g.AddEdgeWithDescription(from, to, predicate, "")
}

// AddEdgeWithDescription is AddEdge with a human-readable description.
func (g *Graph) AddEdgeWithDescription(from, to string, predicate Predicate, description string) error {
	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("%w: edge source %q", ErrUnknownNode, from)
	}
	if _, exists := g.nodes[to]; !exists {
		return fmt.Errorf("%w: edge target %q", ErrUnknownNode, to)
	}
	g.edges.AddEdge(from, to, predicate, description)
	return nil
}

// AddRouter installs every edge of a ConditionalRouter.
func (g *Graph) AddRouter(r *ConditionalRouter) error {
	for _, e := range r.ToEdges() {
		if err := g.AddEdgeWithDescription(e.From, e.To, e.predicate, e.Description); err != nil {
			return err
		}
	}
	return nil
}

// SetEntryPoint designates the node where execution begins.
func (g *Graph) SetEntryPoint(name string) error {
	if _, exists := g.nodes[name]; !exists {
		return fmt.Errorf("%w: entry point %q", ErrUnknownNode, name)
	}
	g.entryPoint = name
	return nil
}

// EntryPoint returns the entry node name, empty if unset.
func (g *Graph) EntryPoint() string {
	return g.entryPoint
}

// Node returns the node registered under name.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// HasNode reports whether name is registered.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// NodeNames returns all node names, sorted.
func (g *Graph) NodeNames() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Edges returns the graph's edge manager.
func (g *Graph) Edges() *EdgeManager {
	return g.edges
}

// Validate checks the graph's structure. Each violation is independent
// and all found violations are joined:
//
//   - an entry point is set and refers to a known node
//   - the graph has at least one node
//   - every node is reachable from the entry point following edges
//     structurally (predicate truth is irrelevant here)
//   - no edge connects a node to itself
func (g *Graph) Validate() error {
	var errs []error

	if len(g.nodes) == 0 {
		errs = append(errs, ErrNoNodes)
	}

	entryKnown := false
	if g.entryPoint == "" {
		errs = append(errs, ErrNoEntryPoint)
	} else if _, exists := g.nodes[g.entryPoint]; !exists {
		errs = append(errs, fmt.Errorf("%w: entry point %q", ErrUnknownNode, g.entryPoint))
	} else {
		entryKnown = true
	}

	if entryKnown {
		reachable := g.reachableNodes()
		var unreachable []string
		for name := range g.nodes {
			if !reachable[name] {
				unreachable = append(unreachable, name)
			}
		}
		if len(unreachable) > 0 {
			sort.Strings(unreachable)
			errs = append(errs, &UnreachableNodesError{Nodes: unreachable})
		}
	}

	for _, e := range g.edges.edges {
		if e.From == e.To {
			errs = append(errs, fmt.Errorf("%w: node %q", ErrSelfLoop, e.From))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// reachableNodes computes the set of nodes reachable from the entry
// point by depth-first traversal, ignoring predicates.
func (g *Graph) reachableNodes() map[string]bool {
	reachable := make(map[string]bool)
	if g.entryPoint == "" {
		return reachable
	}

	stack := []string{g.entryPoint}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if reachable[current] {
			continue
		}
		reachable[current] = true

		for _, e := range g.edges.Outgoing(current) {
			if !reachable[e.To] {
				stack = append(stack, e.To)
			}
		}
	}
	return reachable
}

// FindCycles returns every cycle discovered by depth-first search from
// each unvisited node. A cycle is recorded when traversal revisits a
// node on the active recursion path; the returned slice runs from the
// repeated node back to its recurrence.
//
// Diagnostic only: cycles are legal and are how bounded
// retry-until-condition loops are built.
func (g *Graph) FindCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onPath := make(map[string]bool)

	var dfs func(node string, path []string)
	dfs = func(node string, path []string) {
		visited[node] = true
		onPath[node] = true
		path = append(path, node)

		for _, e := range g.edges.Outgoing(node) {
			next := e.To
			if !visited[next] {
				dfs(next, append([]string(nil), path...))
			} else if onPath[next] {
				start := 0
				for i, name := range path {
					if name == next {
						start = i
						break
					}
				}
				cycle := append(append([]string(nil), path[start:]...), next)
				cycles = append(cycles, cycle)
			}
		}

		onPath[node] = false
	}

	for _, name := range g.NodeNames() {
		if !visited[name] {
			dfs(name, nil)
		}
	}
	return cycles
}

// EndNodes returns the names of nodes with no outgoing edges, sorted.
func (g *Graph) EndNodes() []string {
	var ends []string
	for name := range g.nodes {
		if !g.edges.HasOutgoing(name) {
			ends = append(ends, name)
		}
	}
	sort.Strings(ends)
	return ends
}

// GraphStats summarizes a graph's shape.
type GraphStats struct {
	Name       string   `json:"name"`
	NodeCount  int      `json:"node_count"`
	EdgeCount  int      `json:"edge_count"`
	EntryPoint string   `json:"entry_point"`
	EndNodes   []string `json:"end_nodes"`
	CycleCount int      `json:"cycle_count"`
}

// Stats computes summary statistics for the graph.
func (g *Graph) Stats() GraphStats {
	return GraphStats{
		Name:       g.Name,
		NodeCount:  len(g.nodes),
		EdgeCount:  len(g.edges.edges),
		EntryPoint: g.entryPoint,
		EndNodes:   g.EndNodes(),
		CycleCount: len(g.FindCycles()),
	}
}
