// Package definition builds graphs from declarative workflow files.
//
// A definition names its nodes by the tools that implement them and
// guards its edges with condition expressions, so workflow shape lives
// in YAML or JSON while the work functions live in a ToolRegistry:
//
//	name: review
//	entry: fetch
//	nodes:
//	  - name: fetch
//	    tool: fetch_diff
//	  - name: score
//	    tool: score_diff
//	edges:
//	  - from: fetch
//	    to: score
//	    when: has_errors == false
//
// Conditions are expr expressions evaluated against the state's Data
// plus the pseudo-variables iteration, has_errors, and has_warnings.
package definition

import (
	"errors"
	"fmt"
)

// Definition is a declarative workflow description.
type Definition struct {
	// Name identifies the workflow.
	Name string `yaml:"name" json:"name"`

	// Description is a human-readable summary.
	Description string `yaml:"description" json:"description"`

	// Entry names the node execution starts at.
	Entry string `yaml:"entry" json:"entry"`

	// Nodes lists the workflow's nodes.
	Nodes []NodeDef `yaml:"nodes" json:"nodes"`

	// Edges lists the connections between nodes.
	Edges []EdgeDef `yaml:"edges" json:"edges"`

	// Metadata holds arbitrary descriptive fields.
	Metadata map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// NodeDef declares one node backed by a registered tool.
type NodeDef struct {
	// Name is the node's name in the graph.
	Name string `yaml:"name" json:"name"`

	// Tool names the registry entry supplying the work function.
	Tool string `yaml:"tool" json:"tool"`

	// Description overrides the tool's description when set.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Metadata holds arbitrary descriptive fields.
	Metadata map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// EdgeDef declares one edge, optionally guarded by a condition.
type EdgeDef struct {
	// From and To name the connected nodes.
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`

	// When is an expr condition; empty means unconditional.
	When string `yaml:"when,omitempty" json:"when,omitempty"`

	// Description is a human-readable summary.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks the definition's declarative shape. Structural graph
// rules (reachability, self-loops) are checked later when the graph is
// built; this catches what the file format itself can get wrong.
func (d *Definition) Validate() error {
	var errs []error

	if d.Name == "" {
		errs = append(errs, errors.New("definition has no name"))
	}
	if len(d.Nodes) == 0 {
		errs = append(errs, errors.New("definition has no nodes"))
	}
	if d.Entry == "" {
		errs = append(errs, errors.New("definition has no entry"))
	}

	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.Name == "" {
			errs = append(errs, fmt.Errorf("node %d has no name", i))
			continue
		}
		if n.Tool == "" {
			errs = append(errs, fmt.Errorf("node %q has no tool", n.Name))
		}
		if seen[n.Name] {
			errs = append(errs, fmt.Errorf("duplicate node %q", n.Name))
		}
		seen[n.Name] = true
	}

	for i, e := range d.Edges {
		if e.From == "" || e.To == "" {
			errs = append(errs, fmt.Errorf("edge %d is missing from or to", i))
		}
	}

	return errors.Join(errs...)
}
