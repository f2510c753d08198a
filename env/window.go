// Package env exposes time-varying host state to style expressions through
// env() and keeps the host listeners backing it reference counted.
package env

import (
	"math"
	"sync"
)

// Key identifies a piece of host state whose changes can be observed.
type Key string

// KeyWindowScroll covers the vertical scroll position of the window.
const KeyWindowScroll Key = "window-scroll"

// VarWindowScrollY is the only identifier env() understands.
const VarWindowScrollY = "window-scroll-y"

// KeyFor returns the state key that drives the env() identifier ident.
func KeyFor(ident string) (Key, bool) {
	switch ident {
	case VarWindowScrollY:
		return KeyWindowScroll, true
	}
	return "", false
}

// Scroll describes the vertical scroll metrics of the window.
type Scroll struct {
	Y              float64 // current scroll offset
	Height         float64 // maximum scrollable height of the document
	ViewportHeight float64 // visible height of the window
}

// NormalizedY returns the scroll position as a fraction of the scrollable
// range, 0 when the range is empty or degenerate.
func (s Scroll) NormalizedY() float64 {
	v := s.Y / (s.Height - s.ViewportHeight)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Window is the host surface env() reads from.
type Window interface {
	Scroll() Scroll
	// AddScrollListener registers fn to be called after every scroll and
	// returns a function removing it.
	AddScrollListener(fn func()) (remove func())
}

// Lookup resolves an env() identifier against w. A nil window resolves every
// known identifier to 0.
func Lookup(w Window, ident string) (float64, bool) {
	switch ident {
	case VarWindowScrollY:
		if w == nil {
			return 0, true
		}
		return w.Scroll().NormalizedY(), true
	}
	return 0, false
}

type listener struct {
	id int
	fn func()
}

// ManualWindow is a Window driven by explicit calls, for tools and tests.
type ManualWindow struct {
	mu        sync.Mutex
	scroll    Scroll
	listeners []listener
	nextID    int
}

// NewManualWindow creates a window with the given initial metrics.
func NewManualWindow(s Scroll) *ManualWindow {
	return &ManualWindow{scroll: s}
}

func (w *ManualWindow) Scroll() Scroll {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scroll
}

func (w *ManualWindow) AddScrollListener(fn func()) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.listeners = append(w.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			for i, l := range w.listeners {
				if l.id == id {
					w.listeners = append(w.listeners[:i], w.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

// ScrollTo moves the window and notifies listeners synchronously.
func (w *ManualWindow) ScrollTo(y float64) {
	w.mu.Lock()
	w.scroll.Y = y
	fns := make([]func(), 0, len(w.listeners))
	for _, l := range w.listeners {
		fns = append(fns, l.fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ListenerCount returns the number of registered scroll listeners.
func (w *ManualWindow) ListenerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners)
}
