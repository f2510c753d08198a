// Package style evaluates parsed style expressions into fixed-length numeric
// tuples.
//
// An Evaluator is built once per parse. Every term becomes a node in an
// arena (constant, percentage, env, calc or operator) and nodes that do not
// depend on env() are computed only once. Results are reconciled with the
// property's Intrinsics, so the output always has one value per basis slot
// in the basis' canonical unit.
package style

import (
	"go.uber.org/zap"

	"mvstyle/env"
	"mvstyle/expr"
)

// Evaluator produces the tuple for one property from one parsed value.
type Evaluator struct {
	arena      *arena
	slots      []int
	intrinsics Intrinsics
	constant   bool
	memo       []float64
}

// NewEvaluator builds evaluators for the first expression of exprs, one per
// basis slot. Missing terms default to the "auto" keyword, terms beyond the
// basis length are ignored, as are expressions after the first.
func NewEvaluator(exprs []expr.ExpressionNode, intrinsics Intrinsics, w env.Window, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	a := &arena{window: w, log: log.Named("style")}

	var terms []expr.Node
	if len(exprs) > 0 {
		terms = exprs[0].Terms
	}

	e := &Evaluator{
		arena:      a,
		slots:      make([]int, len(intrinsics.Basis)),
		intrinsics: intrinsics,
		constant:   true,
	}
	for i, basis := range intrinsics.Basis {
		var term expr.Node = expr.Ident(KeywordAuto)
		if i < len(terms) {
			term = terms[i]
		}
		e.slots[i] = a.build(term, basis)
		e.constant = e.constant && a.nodes[e.slots[i]].constant
	}
	return e
}

// Constant reports whether the result can only change when the source string
// does.
func (e *Evaluator) Constant() bool {
	return e.constant
}

// Intrinsics returns the intrinsics the evaluator was built with.
func (e *Evaluator) Intrinsics() Intrinsics {
	return e.intrinsics
}

// EvaluateNodes resolves every slot and applies intrinsics.
func (e *Evaluator) EvaluateNodes() []expr.NumberNode {
	evaluated := make([]expr.Node, len(e.slots))
	for i, slot := range e.slots {
		evaluated[i] = e.arena.evaluate(slot)
	}
	return ApplyIntrinsics(evaluated, e.intrinsics)
}

// Evaluate returns the tuple in canonical units. The returned slice belongs
// to the caller.
func (e *Evaluator) Evaluate() []float64 {
	if e.memo != nil {
		return append([]float64(nil), e.memo...)
	}

	nodes := e.EvaluateNodes()
	values := make([]float64, len(nodes))
	for i, n := range nodes {
		values[i] = n.Value
	}
	if e.constant {
		e.memo = append([]float64(nil), values...)
	}
	return values
}
