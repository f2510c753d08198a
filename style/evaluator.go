package style

import (
	"go.uber.org/zap"

	"mvstyle/env"
	"mvstyle/expr"
	"mvstyle/units"
)

// kind tags an evaluator node.
type kind uint8

const (
	kindConstant   kind = iota // literal number, identifier or hex
	kindPercentage             // p% of a basis value
	kindEnv                    // env(<ident>)
	kindCalc                   // calc(<operand> <op> <operand> ...)
	kindOperator               // binary arithmetic
)

func (k kind) String() string {
	switch k {
	case kindConstant:
		return "constant"
	case kindPercentage:
		return "percentage"
	case kindEnv:
		return "env"
	case kindCalc:
		return "calc"
	case kindOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// node is one evaluator in the arena. Children are referenced by index.
type node struct {
	kind     kind
	constant bool

	leaf    expr.Node       // kindConstant
	percent float64         // kindPercentage
	basis   expr.NumberNode // kindPercentage
	ident   string          // kindEnv
	op      expr.Operator   // kindOperator
	left    int             // kindOperator
	right   int             // kindOperator
	root    int             // kindCalc

	memo     expr.Node
	memoized bool
}

// arena owns every evaluator built from one parse. It is discarded as a
// whole when the source string changes, so nodes never need to be unlinked.
type arena struct {
	nodes  []node
	window env.Window
	log    *zap.Logger
}

func (a *arena) add(n node) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

func (a *arena) constant(leaf expr.Node) int {
	return a.add(node{kind: kindConstant, constant: true, leaf: leaf})
}

func (a *arena) zero() int {
	return a.constant(units.Zero)
}

// build returns the evaluator for term, resolving percentages against basis.
func (a *arena) build(term expr.Node, basis expr.NumberNode) int {
	switch t := term.(type) {
	case expr.NumberNode:
		if t.Unit == expr.UnitPercent {
			return a.add(node{kind: kindPercentage, constant: true, percent: t.Value, basis: basis})
		}
		return a.constant(t)
	case expr.FunctionNode:
		switch t.Name.Value {
		case "calc":
			return a.buildCalc(t, basis)
		case "env":
			return a.buildEnv(t)
		}
		// Functions without an evaluator resolve to zero, leaving room for
		// new functions without turning old documents into errors.
		a.log.Debug("No evaluator for function, using zero", zap.String("function", t.Name.Value))
		return a.zero()
	default:
		return a.constant(term)
	}
}

func (a *arena) buildEnv(fn expr.FunctionNode) int {
	ident, ok := expr.EnvVariable(fn)
	if !ok {
		a.log.Debug("Malformed env() arguments", zap.String("call", fn.String()))
		return a.zero()
	}
	return a.add(node{kind: kindEnv, ident: ident})
}

// buildCalc turns the single argument of calc() into an operator tree:
// multiplicative operators are collapsed first, then additive operators are
// folded left to right.
func (a *arena) buildCalc(fn expr.FunctionNode, basis expr.NumberNode) int {
	if len(fn.Arguments) != 1 {
		a.log.Debug("Malformed calc() arguments", zap.String("call", fn.String()))
		return a.zero()
	}
	terms := fn.Arguments[0].Terms
	if !wellFormedCalc(terms) {
		a.log.Debug("Malformed calc() expression", zap.String("call", fn.String()))
		return a.zero()
	}

	operands := []int{a.build(terms[0], basis)}
	var additive []expr.Operator
	for i := 1; i < len(terms); i += 2 {
		op := terms[i].(expr.OperatorNode).Value
		right := a.build(terms[i+1], basis)
		if op.Multiplicative() {
			last := len(operands) - 1
			operands[last] = a.operator(op, operands[last], right)
			continue
		}
		additive = append(additive, op)
		operands = append(operands, right)
	}

	root := operands[0]
	for i, op := range additive {
		root = a.operator(op, root, operands[i+1])
	}
	return a.add(node{kind: kindCalc, constant: a.nodes[root].constant, root: root})
}

// wellFormedCalc reports whether terms alternate operand, operator, operand.
func wellFormedCalc(terms []expr.Node) bool {
	if len(terms)%2 == 0 {
		return false
	}
	for i, t := range terms {
		if i%2 == 1 {
			if _, ok := t.(expr.OperatorNode); !ok {
				return false
			}
			continue
		}
		switch t.(type) {
		case expr.NumberNode, expr.FunctionNode:
		default:
			return false
		}
	}
	return true
}

func (a *arena) operator(op expr.Operator, left, right int) int {
	return a.add(node{
		kind:     kindOperator,
		constant: a.nodes[left].constant && a.nodes[right].constant,
		op:       op,
		left:     left,
		right:    right,
	})
}

// evaluate computes node i. Constant nodes are computed once.
func (a *arena) evaluate(i int) expr.Node {
	n := &a.nodes[i]
	if n.memoized {
		return n.memo
	}

	var v expr.Node
	switch n.kind {
	case kindConstant:
		v = n.leaf
	case kindPercentage:
		v = expr.Number(n.percent/100*n.basis.Value, n.basis.Unit)
	case kindEnv:
		value, _ := env.Lookup(a.window, n.ident)
		v = expr.Number(value, expr.UnitNone)
	case kindCalc:
		v = a.evaluate(n.root)
	case kindOperator:
		v = a.operate(n)
	default:
		v = units.Zero
	}

	if n.constant {
		n.memo, n.memoized = v, true
	}
	return v
}

// operate applies a binary operator to normalized operands. Operands of
// different unit categories produce zero.
func (a *arena) operate(n *node) expr.Node {
	left := a.number(n.left)
	right := a.number(n.right)

	if left.Unit != expr.UnitNone && right.Unit != expr.UnitNone && left.Unit != right.Unit {
		return units.Zero
	}
	unit := left.Unit
	if unit == expr.UnitNone {
		unit = right.Unit
	}

	var value float64
	switch n.op {
	case expr.OpAdd:
		value = left.Value + right.Value
	case expr.OpSub:
		value = left.Value - right.Value
	case expr.OpMul:
		value = left.Value * right.Value
	case expr.OpDiv:
		value = left.Value / right.Value
	default:
		return units.Zero
	}
	return expr.Number(value, unit)
}

// number evaluates node i as a normalized number, non-numbers count as zero.
func (a *arena) number(i int) expr.NumberNode {
	n, ok := a.evaluate(i).(expr.NumberNode)
	if !ok {
		return units.Zero
	}
	return units.Normalize(n, units.Zero)
}
