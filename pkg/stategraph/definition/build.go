package definition

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/stategraph/pkg/stategraph"
	"github.com/randalmurphal/stategraph/pkg/stategraph/expr"
	"github.com/randalmurphal/stategraph/pkg/stategraph/registry"
)

// Build resolves the definition's tools against the registry and
// assembles a validated graph. The node variant follows the tool: a
// tool registered with a Blocking function becomes a BlockingNode,
// otherwise a FuncNode.
func Build(d *Definition, tools *stategraph.ToolRegistry) (*stategraph.Graph, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	if tools == nil {
		return nil, fmt.Errorf("build %q: tool registry is nil", d.Name)
	}

	b := stategraph.NewBuilder(d.Name, d.Description)
	for k, v := range d.Metadata {
		b.Metadata(k, v)
	}

	for _, n := range d.Nodes {
		t, ok := tools.Get(n.Tool)
		if !ok {
			return nil, fmt.Errorf("build %q: node %q references unknown tool %q (registered: %s)",
				d.Name, n.Name, n.Tool, strings.Join(registry.SortedKeys(tools), ", "))
		}

		opts := nodeOptions(n, t)
		switch {
		case t.Blocking != nil:
			b.Blocking(n.Name, t.Blocking, opts...)
		case t.Fn != nil:
			b.Func(n.Name, t.Fn, opts...)
		default:
			return nil, fmt.Errorf("build %q: tool %q has no function", d.Name, n.Tool)
		}
	}

	for _, e := range d.Edges {
		b.ConditionalEdge(e.From, e.To, whenPredicate(e.When))
	}

	b.Entry(d.Entry)
	return b.Build()
}

func nodeOptions(n NodeDef, t stategraph.Tool) []stategraph.NodeOption {
	desc := n.Description
	if desc == "" {
		desc = t.Description
	}

	opts := []stategraph.NodeOption{stategraph.WithDescription(desc)}
	for k, v := range t.Metadata {
		opts = append(opts, stategraph.WithMetadata(k, v))
	}
	for k, v := range n.Metadata {
		opts = append(opts, stategraph.WithMetadata(k, v))
	}
	return opts
}

// whenPredicate compiles a When condition into an edge predicate. An
// empty condition makes the edge unconditional.
func whenPredicate(condition string) stategraph.Predicate {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return nil
	}
	ev := expr.New()
	return func(ctx stategraph.Context, s stategraph.State) (bool, error) {
		return ev.Evaluate(condition, conditionVars(s)), nil
	}
}

// conditionVars exposes the state to condition expressions: every Data
// key plus iteration, has_errors, and has_warnings. Data keys shadow
// the pseudo-variables if they collide.
func conditionVars(s stategraph.State) map[string]any {
	vars := map[string]any{
		"iteration":    s.Iteration,
		"has_errors":   s.HasErrors(),
		"has_warnings": s.HasWarnings(),
	}
	for k, v := range s.Data {
		vars[k] = v
	}
	return vars
}
