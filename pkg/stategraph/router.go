package stategraph

// ConditionalRouter selects the next node from an ordered list of
// (predicate, destination) pairs, first match wins, with an optional
// default.
//
// It is deliberately stricter than EdgeManager: where a fully declined
// branch silently ends a run, a router with no matching route and no
// default raises *NoRouteError. Use it when falling through routes is a
// bug rather than a normal end state.
type ConditionalRouter struct {
	from         string
	routes       []route
	defaultRoute string
}

type route struct {
	predicate Predicate
	to        string
}

// NewConditionalRouter creates a router for routes out of from.
func NewConditionalRouter(from string) *ConditionalRouter {
	return &ConditionalRouter{from: from}
}

// AddRoute appends a conditional route. Routes are evaluated in the
// order they were added. Returns the router for chaining.
func (r *ConditionalRouter) AddRoute(predicate Predicate, to string) *ConditionalRouter {
	r.routes = append(r.routes, route{predicate: predicate, to: to})
	return r
}

// SetDefault sets the destination used when no route matches.
// Returns the router for chaining.
func (r *ConditionalRouter) SetDefault(to string) *ConditionalRouter {
	r.defaultRoute = to
	return r
}

// Route returns the destination of the first route whose predicate
// passes. Predicate errors and panics skip the route, matching the edge
// policy. With no match it returns the default, or *NoRouteError if
// none is configured.
func (r *ConditionalRouter) Route(ctx Context, s State) (string, error) {
	for _, rt := range r.routes {
		if evalPredicate(ctx, rt.predicate, s, r.from, rt.to) {
			return rt.to, nil
		}
	}

	if r.defaultRoute != "" {
		return r.defaultRoute, nil
	}

	return "", &NoRouteError{FromNode: r.from}
}

// ToEdges converts the router into plain edges for use with a Graph:
// one conditional edge per route, in order, plus an unconditional edge
// for the default when present. The EdgeManager's first-match semantics
// reproduce the router's ordering, but fallthrough becomes a silent run
// end instead of an error.
func (r *ConditionalRouter) ToEdges() []*Edge {
	edges := make([]*Edge, 0, len(r.routes)+1)
	for _, rt := range r.routes {
		edges = append(edges, NewEdge(r.from, rt.to, rt.predicate, ""))
	}
	if r.defaultRoute != "" {
		edges = append(edges, NewEdge(r.from, r.defaultRoute, nil, ""))
	}
	return edges
}

// evalPredicate evaluates a route predicate, swallowing errors and
// panics as "no match".
func evalPredicate(ctx Context, p Predicate, s State, from, to string) (matched bool) {
	if p == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			ctx.Logger().Warn("route predicate panicked",
				"from", from, "to", to, "panic", r)
			matched = false
		}
	}()

	ok, err := p(ctx, s)
	if err != nil {
		ctx.Logger().Warn("route predicate failed",
			"from", from, "to", to, "error", err.Error())
		return false
	}
	return ok
}
