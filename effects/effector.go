// Package effects discovers which host state a parsed style expression
// depends on and keeps matching subscriptions alive while it does.
package effects

import (
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mvstyle/env"
	"mvstyle/expr"
)

// Effector tracks the env() dependencies of one property. It invokes its
// callback whenever any of them changes.
//
// An Effector is not safe for concurrent use; it is driven from the same
// goroutine that updates the property it serves.
type Effector struct {
	id       uuid.UUID
	registry *env.Registry
	callback func()
	log      *zap.Logger
	subs     map[env.Key]*env.Subscription
	disposed bool
}

// New creates an effector notifying callback through registry.
func New(registry *env.Registry, callback func(), log *zap.Logger) *Effector {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	return &Effector{
		id:       id,
		registry: registry,
		callback: callback,
		log:      log.Named("effector").With(zap.Stringer("effector", id)),
		subs:     make(map[env.Key]*env.Subscription),
	}
}

// ID returns the identifier used to tag this effector's log entries.
func (e *Effector) ID() uuid.UUID {
	return e.id
}

// ObserveEffectsFor replaces the observed dependencies with the ones found in
// exprs. Subscriptions that are still needed are kept, the rest are released.
func (e *Effector) ObserveEffectsFor(exprs []expr.ExpressionNode) {
	if e.disposed {
		e.log.Debug("Ignoring observe on disposed effector")
		return
	}

	found := make(map[env.Key]struct{})
	expr.Walk(exprs, func(fn expr.FunctionNode) {
		ident, ok := expr.EnvVariable(fn)
		if !ok {
			return
		}
		if key, ok := env.KeyFor(ident); ok {
			found[key] = struct{}{}
		}
	})

	for key := range found {
		if _, ok := e.subs[key]; ok {
			continue
		}
		e.subs[key] = e.registry.Subscribe(key, e.notify)
		e.log.Debug("Observing", zap.String("key", string(key)))
	}
	for key, sub := range e.subs {
		if _, ok := found[key]; ok {
			continue
		}
		sub.Release()
		delete(e.subs, key)
		e.log.Debug("Stopped observing", zap.String("key", string(key)))
	}
}

// Keys returns the observed keys in sorted order.
func (e *Effector) Keys() []env.Key {
	keys := make([]env.Key, 0, len(e.subs))
	for key := range e.subs {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Dispose releases every subscription. Later calls to ObserveEffectsFor are
// ignored.
func (e *Effector) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	for key, sub := range e.subs {
		sub.Release()
		delete(e.subs, key)
	}
	e.log.Debug("Disposed")
}

func (e *Effector) notify() {
	if e.disposed || e.callback == nil {
		return
	}
	e.callback()
}
