// Package expr evaluates the boolean condition language used by edge
// definitions.
//
// An expression is a comparison, a logical combination, or a bare value
// checked for truthiness:
//
//	<expr> := <value> <op> <value>
//	        | <expr> 'and' <expr>
//	        | <expr> 'or' <expr>
//	        | 'not' <expr> | '!' <expr>
//	        | <value>
//	<op>   := '==' | '!=' | '<' | '>' | '<=' | '>=' | 'contains'
//
// Values are quoted strings ('x' or "x"), numbers, true/false,
// null/nil, or identifiers resolved from the variable map. Equality is
// string-typed, ordering is numeric, contains is substring match.
//
// Evaluation never fails on malformed input: an unresolvable identifier
// is treated as a string literal and a bare value falls back to
// truthiness. The condition either holds or it does not.
package expr

import (
	"fmt"
	"strings"
)

// Operator compares two resolved values.
type Operator func(left, right any) bool

// builtins in match order, longest first so ">=" wins over ">".
var builtins = []struct {
	token string
	apply Operator
}{
	{"==", func(l, r any) bool { return fmt.Sprintf("%v", l) == fmt.Sprintf("%v", r) }},
	{"!=", func(l, r any) bool { return fmt.Sprintf("%v", l) != fmt.Sprintf("%v", r) }},
	{">=", func(l, r any) bool { return Number(l) >= Number(r) }},
	{"<=", func(l, r any) bool { return Number(l) <= Number(r) }},
	{">", func(l, r any) bool { return Number(l) > Number(r) }},
	{"<", func(l, r any) bool { return Number(l) < Number(r) }},
	{" contains ", func(l, r any) bool {
		return strings.Contains(fmt.Sprintf("%v", l), fmt.Sprintf("%v", r))
	}},
}

// Evaluator evaluates condition expressions, optionally extended with
// custom operators.
type Evaluator struct {
	custom map[string]Operator
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOperator registers a custom binary operator under the given
// token. Custom operators are tried after the built-in ones.
func WithOperator(token string, op Operator) Option {
	return func(e *Evaluator) {
		if e.custom == nil {
			e.custom = make(map[string]Operator)
		}
		e.custom[token] = op
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval evaluates an expression with the default Evaluator.
func Eval(expression string, vars map[string]any) bool {
	return New().Evaluate(expression, vars)
}

// Evaluate evaluates an expression against the variable map.
func (e *Evaluator) Evaluate(expression string, vars map[string]any) bool {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return false
	}

	if inner, ok := strings.CutPrefix(expression, "not "); ok {
		return !e.Evaluate(inner, vars)
	}
	if inner, ok := strings.CutPrefix(expression, "!"); ok {
		return !e.Evaluate(inner, vars)
	}

	// Logical operators split on the first occurrence; and binds no
	// tighter than or, so expressions read left to right.
	if left, right, ok := strings.Cut(expression, " and "); ok {
		return e.Evaluate(left, vars) && e.Evaluate(right, vars)
	}
	if left, right, ok := strings.Cut(expression, " or "); ok {
		return e.Evaluate(left, vars) || e.Evaluate(right, vars)
	}

	for _, b := range builtins {
		if left, right, ok := strings.Cut(expression, b.token); ok {
			return b.apply(
				Resolve(strings.TrimSpace(left), vars),
				Resolve(strings.TrimSpace(right), vars),
			)
		}
	}
	for token, apply := range e.custom {
		if left, right, ok := strings.Cut(expression, " "+token+" "); ok {
			return apply(
				Resolve(strings.TrimSpace(left), vars),
				Resolve(strings.TrimSpace(right), vars),
			)
		}
	}

	return Truthy(Resolve(expression, vars))
}
