package state

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mvstyle/env"
	"mvstyle/presets"
	"mvstyle/property"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// Initialize builds the simulated window, the property engine and the preset
// registry from the loaded configuration. Declared properties may not reuse
// built-in names.
func (e *LocalEnv) Initialize() error {
	if e.Cfg == nil {
		return errors.New("configuration has not been loaded")
	}
	if e.Log == nil {
		e.Log = zap.NewNop()
	}

	e.Window = env.NewManualWindow(env.Scroll{
		Y:              e.Cfg.Window.ScrollY,
		Height:         e.Cfg.Window.ScrollHeight,
		ViewportHeight: e.Cfg.Window.ViewportHeight,
	})
	e.Engine = property.NewEngine(e.Window, e.Log,
		property.WithParseCacheSize(e.Cfg.Engine.ParseCacheSize),
		property.WithObserveEffects(e.Cfg.Engine.ObserveEffects),
	)

	registry, err := presets.NewRegistry(presets.Builtin(e.Cfg.Scene)...)
	if err != nil {
		return fmt.Errorf("unable to register built-in properties: %w", err)
	}
	declared, err := presets.FromDeclarations(e.Engine.Parser(), e.Cfg.Properties)
	if err != nil {
		return fmt.Errorf("unable to use declared properties: %w", err)
	}
	for _, p := range declared {
		if err := registry.Register(p); err != nil {
			return fmt.Errorf("unable to use declared properties: %w", err)
		}
		e.Log.Debug("Declared property registered", zap.String("property", p.Name))
	}
	e.Presets = registry
	return nil
}
