package env

import (
	"sync"

	"go.uber.org/zap"
)

type subscriber struct {
	id uint64
	fn func()
}

// observer is the single host listener shared by all subscribers of a key.
type observer struct {
	remove      func()
	subscribers []subscriber
}

// Registry hands out reference counted subscriptions to host state. The
// first subscription of a key attaches one listener to the window, releasing
// the last one detaches it. Safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	window    Window
	log       *zap.Logger
	observers map[Key]*observer
	nextID    uint64
}

// NewRegistry creates a registry observing w.
func NewRegistry(w Window, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		window:    w,
		log:       log.Named("env-registry"),
		observers: make(map[Key]*observer),
	}
}

// Window returns the observed window.
func (r *Registry) Window() Window {
	return r.window
}

// Subscription is one holder's claim on a key.
type Subscription struct {
	registry *Registry
	key      Key
	id       uint64
	once     sync.Once
}

// Key returns the observed key.
func (s *Subscription) Key() Key {
	return s.key
}

// Release drops the claim. Calling it more than once has no effect.
func (s *Subscription) Release() {
	s.once.Do(func() {
		s.registry.release(s.key, s.id)
	})
}

// Subscribe registers fn to be called whenever the state behind key changes.
func (r *Registry) Subscribe(key Key, fn func()) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID

	obs, ok := r.observers[key]
	if !ok {
		obs = &observer{remove: r.attach(key)}
		r.observers[key] = obs
		r.log.Debug("Observer created", zap.String("key", string(key)))
	}
	obs.subscribers = append(obs.subscribers, subscriber{id: id, fn: fn})
	r.log.Debug("Subscribed", zap.String("key", string(key)), zap.Int("count", len(obs.subscribers)))

	return &Subscription{registry: r, key: key, id: id}
}

func (r *Registry) release(key Key, id uint64) {
	r.mu.Lock()
	obs, ok := r.observers[key]
	if !ok {
		r.mu.Unlock()
		return
	}
	for i, s := range obs.subscribers {
		if s.id == id {
			obs.subscribers = append(obs.subscribers[:i], obs.subscribers[i+1:]...)
			break
		}
	}
	count := len(obs.subscribers)
	if count == 0 {
		delete(r.observers, key)
	}
	r.mu.Unlock()

	r.log.Debug("Released", zap.String("key", string(key)), zap.Int("count", count))
	if count == 0 {
		if obs.remove != nil {
			obs.remove()
		}
		r.log.Debug("Observer destroyed", zap.String("key", string(key)))
	}
}

// Count returns the number of live subscriptions for key.
func (r *Registry) Count(key Key) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if obs, ok := r.observers[key]; ok {
		return len(obs.subscribers)
	}
	return 0
}

// attach installs the host listener for key. Must be called with r.mu held.
func (r *Registry) attach(key Key) func() {
	if r.window == nil {
		return nil
	}
	switch key {
	case KeyWindowScroll:
		return r.window.AddScrollListener(func() { r.dispatch(key) })
	}
	r.log.Debug("No host listener for key", zap.String("key", string(key)))
	return nil
}

// dispatch notifies subscribers of key outside the lock, so callbacks may
// subscribe or release.
func (r *Registry) dispatch(key Key) {
	r.mu.Lock()
	obs, ok := r.observers[key]
	if !ok {
		r.mu.Unlock()
		return
	}
	fns := make([]func(), 0, len(obs.subscribers))
	for _, s := range obs.subscribers {
		fns = append(fns, s.fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
