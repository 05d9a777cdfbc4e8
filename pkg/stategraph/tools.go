package stategraph

import (
	"github.com/randalmurphal/stategraph/pkg/stategraph/registry"
)

// Tool is a named work function with descriptive metadata, registered
// so declarative graph definitions can reference it by name.
type Tool struct {
	// Fn is the work function executed when a node references this tool.
	Fn NodeFunc

	// Blocking, when set, is used instead of Fn and runs on the bounded
	// worker pool. Register context-unaware functions here.
	Blocking BlockingFunc

	// Description is a human-readable summary of what the tool does.
	Description string

	// Metadata holds arbitrary descriptive fields (version, owner, ...).
	Metadata map[string]any
}

// ToolRegistry is a read-mostly registry of named tools. It is an
// explicit, injected service: pass it to NewContext via WithTools and to
// definition.Build; there is no package-level instance.
type ToolRegistry = registry.Registry[string, Tool]

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return registry.New[string, Tool]()
}

// RegisterTool is a convenience for registering a bare function without
// building a Tool value by hand.
func RegisterTool(r *ToolRegistry, name string, fn NodeFunc, description string) {
	r.Register(name, Tool{Fn: fn, Description: description})
}

// RegisterBlockingTool registers a context-unaware function that runs on
// the worker pool when executed.
func RegisterBlockingTool(r *ToolRegistry, name string, fn BlockingFunc, description string) {
	r.Register(name, Tool{Blocking: fn, Description: description})
}
