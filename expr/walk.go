package expr

import (
	"mvstyle/utils/debug"
)

// Walk calls fn for every function node reachable from exprs, depth first,
// a function before its arguments.
func Walk(exprs []ExpressionNode, fn func(FunctionNode)) {
	for _, e := range exprs {
		walkTerms(e.Terms, fn)
	}
}

func walkTerms(terms []Node, fn func(FunctionNode)) {
	for _, t := range terms {
		switch n := t.(type) {
		case FunctionNode:
			fn(n)
			Walk(n.Arguments, fn)
		case ExpressionNode:
			walkTerms(n.Terms, fn)
		}
	}
}

// EnvVariable returns the identifier of a well formed env() call: exactly one
// argument made of a single identifier.
func EnvVariable(fn FunctionNode) (string, bool) {
	if fn.Name.Value != "env" || len(fn.Arguments) != 1 || len(fn.Arguments[0].Terms) != 1 {
		return "", false
	}
	ident, ok := fn.Arguments[0].Terms[0].(IdentNode)
	if !ok {
		return "", false
	}
	return ident.Value, true
}

// Dump renders parsed expressions as an indented tree.
func Dump(exprs []ExpressionNode) string {
	tw := debug.NewTreeWriter()
	for i, e := range exprs {
		tw.Line(0, "expression[%d]", i)
		dumpTerms(tw, 1, e.Terms)
	}
	return tw.String()
}

func dumpTerms(tw *debug.TreeWriter, depth int, terms []Node) {
	for _, t := range terms {
		switch n := t.(type) {
		case IdentNode:
			tw.TextBlock(depth, "ident", n.Value)
		case HexNode:
			tw.TextBlock(depth, "hex", n.Value)
		case NumberNode:
			tw.Line(depth, "number: %v unit=%q", n.Value, n.Unit.String())
		case OperatorNode:
			tw.Line(depth, "operator: %s", n.Value)
		case FunctionNode:
			tw.Line(depth, "function: %s", n.Name.Value)
			for i, arg := range n.Arguments {
				tw.Line(depth+1, "argument[%d]", i)
				dumpTerms(tw, depth+2, arg.Terms)
			}
		case ExpressionNode:
			tw.Line(depth, "expression")
			dumpTerms(tw, depth+1, n.Terms)
		}
	}
}
