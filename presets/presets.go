// Package presets provides intrinsics for the standard model viewer
// properties and builds intrinsics for properties declared in configuration.
package presets

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/maruel/natural"

	"mvstyle/expr"
	"mvstyle/style"
)

// Property names.
const (
	CameraOrbit    = "camera-orbit"
	MinCameraOrbit = "min-camera-orbit"
	MaxCameraOrbit = "max-camera-orbit"
	CameraTarget   = "camera-target"
	FieldOfView    = "field-of-view"
	MinFieldOfView = "min-field-of-view"
	MaxFieldOfView = "max-field-of-view"
	Orientation    = "orientation"
	Scale          = "scale"
)

// autoRadiusRatio is the camera distance "auto" resolves to, in percent of
// the ideal distance.
const autoRadiusRatio = 105

// Scene supplies the model dependent values some intrinsics are based on.
type Scene interface {
	IdealCameraDistance() float64
	BoundingBoxCenter() [3]float64
}

// StaticScene is a Scene with fixed dimensions.
type StaticScene struct {
	Distance float64    `yaml:"ideal_camera_distance"`
	Center   [3]float64 `yaml:"bounding_box_center"`
}

func (s StaticScene) IdealCameraDistance() float64 { return s.Distance }

func (s StaticScene) BoundingBoxCenter() [3]float64 { return s.Center }

// Preset describes one property: its intrinsics and the value used when the
// host has not set one.
type Preset struct {
	Name       string
	Default    string
	Intrinsics func() style.Intrinsics
}

func absent(n int) []*expr.NumberNode {
	return make([]*expr.NumberNode, n)
}

func autoOnly(basis ...expr.NumberNode) style.Intrinsics {
	return style.MustIntrinsics(basis, map[string][]*expr.NumberNode{style.KeywordAuto: absent(len(basis))})
}

func static(in style.Intrinsics) func() style.Intrinsics {
	return func() style.Intrinsics { return in }
}

// Builtin returns the model viewer presets. Intrinsics depending on the model
// query scene every time they are requested.
func Builtin(scene Scene) []Preset {
	if scene == nil {
		scene = StaticScene{Distance: 1}
	}
	deg := func(v float64) expr.NumberNode { return expr.Number(v, expr.UnitDegree) }
	rad := func(v float64) expr.NumberNode { return expr.Number(v, expr.UnitRadian) }
	m := func(v float64) expr.NumberNode { return expr.Number(v, expr.UnitMeter) }

	return []Preset{
		{
			Name:    CameraOrbit,
			Default: "0deg 75deg 105%",
			Intrinsics: func() style.Intrinsics {
				return style.MustIntrinsics(
					[]expr.NumberNode{deg(0), deg(75), m(scene.IdealCameraDistance())},
					map[string][]*expr.NumberNode{
						style.KeywordAuto: {nil, nil, style.Slot(autoRadiusRatio, expr.UnitPercent)},
					},
				)
			},
		},
		{
			Name:       MinCameraOrbit,
			Default:    "auto auto auto",
			Intrinsics: static(autoOnly(rad(math.Inf(-1)), deg(22.5), m(0))),
		},
		{
			Name:       MaxCameraOrbit,
			Default:    "auto auto auto",
			Intrinsics: static(autoOnly(rad(math.Inf(1)), deg(157.5), m(math.Inf(1)))),
		},
		{
			Name:    CameraTarget,
			Default: "auto auto auto",
			Intrinsics: func() style.Intrinsics {
				c := scene.BoundingBoxCenter()
				return autoOnly(m(c[0]), m(c[1]), m(c[2]))
			},
		},
		{Name: FieldOfView, Default: "auto", Intrinsics: static(autoOnly(deg(30)))},
		{Name: MinFieldOfView, Default: "auto", Intrinsics: static(autoOnly(deg(25)))},
		{Name: MaxFieldOfView, Default: "auto", Intrinsics: static(autoOnly(deg(45)))},
		{Name: Orientation, Default: "0deg 0deg 0deg", Intrinsics: static(autoOnly(rad(0), rad(0), rad(0)))},
		{
			Name:    Scale,
			Default: "1 1 1",
			Intrinsics: static(autoOnly(
				expr.Number(1, expr.UnitNone), expr.Number(1, expr.UnitNone), expr.Number(1, expr.UnitNone),
			)),
		},
	}
}

// Registry maps property names to presets. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewRegistry creates a registry holding presets.
func NewRegistry(presets ...Preset) (*Registry, error) {
	r := &Registry{presets: make(map[string]Preset, len(presets))}
	for _, p := range presets {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a preset. Names must be unique.
func (r *Registry) Register(p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset has no name")
	}
	if p.Intrinsics == nil {
		return fmt.Errorf("preset %q has no intrinsics", p.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.presets[p.Name]; ok {
		return fmt.Errorf("preset %q already registered", p.Name)
	}
	r.presets[p.Name] = p
	return nil
}

// Lookup returns the preset registered under name.
func (r *Registry) Lookup(name string) (Preset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presets[name]
	return p, ok
}

// Names returns registered names in natural order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return names
}
