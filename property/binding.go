package property

import (
	"go.uber.org/zap"

	"mvstyle/effects"
	"mvstyle/expr"
	"mvstyle/style"
)

// Observation selects whether a binding re-evaluates when env() inputs change.
type Observation int

const (
	// ObserveDefault defers to the engine, see WithObserveEffects.
	ObserveDefault Observation = iota
	ObserveOn
	ObserveOff
)

// Config describes one property.
type Config struct {
	// Intrinsics is called on every parse so that intrinsics which depend on
	// host state (model size, for instance) are current.
	Intrinsics func() style.Intrinsics
	// UpdateHandler receives every evaluated tuple.
	UpdateHandler func([]float64)
	// ObserveEffects enables re-evaluation when env() inputs change.
	ObserveEffects Observation
}

// Static returns an intrinsics provider for fixed intrinsics.
func Static(in style.Intrinsics) func() style.Intrinsics {
	return func() style.Intrinsics { return in }
}

// Binding connects one property's source string to its handler.
//
// A Binding is confined to the goroutine driving the host; env() changes are
// delivered on whichever goroutine changes the window.
type Binding struct {
	engine    *Engine
	cfg       Config
	observe   bool
	log       *zap.Logger
	raw       string
	set       bool // Update has been called at least once
	parsed    bool // raw is parsed and evaluated
	ast       []expr.ExpressionNode
	evaluator *style.Evaluator
	effector  *effects.Effector
}

// Bind creates a binding. Nothing is evaluated until the first Update.
func (e *Engine) Bind(name string, cfg Config) *Binding {
	observe := e.observeEffects
	switch cfg.ObserveEffects {
	case ObserveOn:
		observe = true
	case ObserveOff:
		observe = false
	}
	return &Binding{
		engine:  e,
		cfg:     cfg,
		observe: observe,
		log:     e.log.Named("property").With(zap.String("property", name)),
	}
}

// Observing reports whether the binding follows env() changes.
func (b *Binding) Observing() bool {
	return b.observe
}

// Update sets the source string. Repeating the current value does nothing.
func (b *Binding) Update(raw string) {
	if b.parsed && raw == b.raw {
		return
	}
	b.raw, b.set, b.parsed = raw, true, true

	b.ast = b.engine.Parse(raw)
	var in style.Intrinsics
	if b.cfg.Intrinsics != nil {
		in = b.cfg.Intrinsics()
	}
	b.evaluator = style.NewEvaluator(b.ast, in, b.engine.Window(), b.log)

	if b.observe {
		if b.effector == nil {
			b.effector = effects.New(b.engine.Registry(), b.EvaluateAndSync, b.log)
		}
		b.effector.ObserveEffectsFor(b.ast)
	}
	b.log.Debug("Updated", zap.String("value", raw), zap.Bool("constant", b.evaluator.Constant()))

	b.EvaluateAndSync()
}

// EvaluateAndSync evaluates the current value and passes it to the handler.
func (b *Binding) EvaluateAndSync() {
	if b.evaluator == nil {
		return
	}
	values := b.evaluator.Evaluate()
	if b.cfg.UpdateHandler != nil {
		b.cfg.UpdateHandler(values)
	}
}

// Value returns the current source string.
func (b *Binding) Value() string {
	return b.raw
}

// Expressions returns the parsed form of the current source string.
func (b *Binding) Expressions() []expr.ExpressionNode {
	return b.ast
}

// Evaluate returns the current tuple without calling the handler, nil before
// the first Update.
func (b *Binding) Evaluate() []float64 {
	if b.evaluator == nil {
		return nil
	}
	return b.evaluator.Evaluate()
}

// Constant reports whether the current value is independent of host state.
func (b *Binding) Constant() bool {
	return b.evaluator == nil || b.evaluator.Constant()
}

// Detach releases env() observation and drops evaluation state. It is safe
// to call more than once. The source string is kept: a later Update, or
// Attach, evaluates again.
func (b *Binding) Detach() {
	if b.evaluator == nil {
		return
	}
	if b.effector != nil {
		b.effector.Dispose()
		b.effector = nil
	}
	b.evaluator = nil
	b.ast = nil
	b.parsed = false
	b.log.Debug("Detached")
}

// Attach re-evaluates the last source string after Detach. It does nothing
// while attached or before the first Update.
func (b *Binding) Attach() {
	if !b.set || b.evaluator != nil {
		return
	}
	b.Update(b.raw)
}
