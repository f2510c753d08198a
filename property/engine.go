// Package property wires parsing, evaluation and env() observation together
// for properties hosted by an element.
package property

import (
	"go.uber.org/zap"

	"mvstyle/env"
	"mvstyle/expr"
)

// DefaultParseCacheSize is used when EngineOptions leave the cache size unset.
const DefaultParseCacheSize = 256

// Engine holds everything properties of one host share: the parser with its
// cache, the env registry and the window it observes. Engines are
// independent of each other.
type Engine struct {
	log            *zap.Logger
	parser         *expr.Parser
	registry       *env.Registry
	window         env.Window
	observeEffects bool
}

// EngineOptions holds optional Engine settings.
type EngineOptions struct {
	cacheSize      int
	observeEffects bool
}

// WithParseCacheSize sets the number of parsed strings kept. Zero or negative
// disables the cache.
func WithParseCacheSize(size int) func(*EngineOptions) {
	return func(opts *EngineOptions) {
		opts.cacheSize = size
	}
}

// WithObserveEffects sets what ObserveDefault resolves to for bindings of
// the engine. Engines observe by default.
func WithObserveEffects(observe bool) func(*EngineOptions) {
	return func(opts *EngineOptions) {
		opts.observeEffects = observe
	}
}

// NewEngine creates an engine reading host state from w, which may be nil.
func NewEngine(w env.Window, log *zap.Logger, options ...func(*EngineOptions)) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	opts := &EngineOptions{cacheSize: DefaultParseCacheSize, observeEffects: true}
	for _, setOpt := range options {
		setOpt(opts)
	}

	return &Engine{
		log:            log,
		parser:         expr.NewParser(log, expr.WithCacheSize(opts.cacheSize)),
		registry:       env.NewRegistry(w, log),
		window:         w,
		observeEffects: opts.observeEffects,
	}
}

// Window returns the host window.
func (e *Engine) Window() env.Window {
	return e.window
}

// Registry returns the registry shared by the engine's effectors.
func (e *Engine) Registry() *env.Registry {
	return e.registry
}

// Parser returns the engine's parser.
func (e *Engine) Parser() *expr.Parser {
	return e.parser
}

// Parse parses input through the engine's cache.
func (e *Engine) Parse(input string) []expr.ExpressionNode {
	return e.parser.Parse(input)
}

// ObserveEffects reports what ObserveDefault resolves to.
func (e *Engine) ObserveEffects() bool {
	return e.observeEffects
}
